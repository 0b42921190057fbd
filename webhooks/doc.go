// Package webhooks orchestrates the inbound event pipeline:
// authenticate, check the kill switch, evaluate guardrails, claim the
// idempotency ledger, and invoke the connector.
package webhooks
