// Package sqlite implements the SQLite document-store backend for Semilla.
// Records are owner-scoped JSON documents grouped into named collections;
// multi-record writes commit through atomic batches.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/semilla-app/semilla/pkg/types"
)

// Backend implements the Store interface using SQLite as the document
// engine. One row per document, keyed (collection, owner, record).
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	colls    map[string]*collection
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		colls: make(map[string]*collection),
	}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist and ensures the schema is present. Existing
// data is kept; the database is the source of truth.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, "semilla.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	for _, name := range types.StandardCollections {
		b.colls[name] = &collection{backend: b, name: name}
	}

	return nil
}

// Detach releases all resources held by the backend. Idempotent. After
// Detach, all collection operations return ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.colls = make(map[string]*collection)

	return nil
}

// Collection returns the accessor for the named collection.
// Returns ErrCollectionNotFound if the name is not recognized.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Collection(name string) (types.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	coll, ok := b.colls[name]
	if !ok {
		return nil, types.ErrCollectionNotFound
	}
	return coll, nil
}

// Batch returns a new write batch bound to this backend.
func (b *Backend) Batch() (types.Batch, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return &batch{backend: b}, nil
}
