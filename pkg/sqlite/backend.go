// Package sqlite provides the public API for the SQLite Semilla backend.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/semilla-app/semilla/internal/sqlite"
	"github.com/semilla-app/semilla/pkg/types"
)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".semilla",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
