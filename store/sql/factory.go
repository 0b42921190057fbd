package sqlstore

import (
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// NewStateStoreFromPersistence builds the store from a
// go-persistence-bun client.
func NewStateStoreFromPersistence(client *persistence.Client) (*StateStore, error) {
	if client == nil {
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	}
	return NewStateStore(client.DB())
}

// ResolveBunDB accepts either a *bun.DB or a persistence client, so
// callers can wire the store from whichever handle they hold.
func ResolveBunDB(source any) (*bun.DB, error) {
	switch typed := source.(type) {
	case *bun.DB:
		if typed == nil {
			return nil, fmt.Errorf("sqlstore: bun db is nil")
		}
		return typed, nil
	case *persistence.Client:
		if typed == nil {
			return nil, fmt.Errorf("sqlstore: persistence client is nil")
		}
		return typed.DB(), nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence handle %T", source)
	}
}
