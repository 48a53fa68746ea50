// Package sqlite provides the public factory for the SQLite contact store
// while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// NewStore creates a disconnected SQLite store for config.
//
// Example:
//
//	store := sqlite.NewStore(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".addressbook-db",
//	})
//	err := types.WithConnection(ctx, store, "alice", func(s types.ContactStore) error {
//	    _, err := s.AddContact(ctx, contact)
//	    return err
//	})
func NewStore(config types.Config) types.ContactStore {
	return sqlite.NewBackend(config)
}
