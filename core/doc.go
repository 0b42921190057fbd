// Package core defines the domain types, contracts, configuration, and
// error taxonomy shared by every hookgate component. It has no
// transport or storage dependencies; concrete implementations live in
// store/sql, connector, auth, webhooks, and transport/http.
package core
