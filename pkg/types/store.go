package types

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names. The persisted layout is owner-scoped:
// users/{ownerID}/{collection}/{recordID}.
const (
	CollectionFinancial       = "financial/transactions"
	CollectionTransactionMeta = "metadata/transactionMeta"
	CollectionPeriodMeta      = "metadata/periodMeta"
	CollectionChapters        = "emotional/chapters"
	CollectionNarratives      = "emotional/yearlyNarratives"
	CollectionMigration       = "migration/status"
	CollectionLegacy          = "legacy/investments"
)

// StandardCollections lists every collection name for enumeration.
var StandardCollections = []string{
	CollectionFinancial,
	CollectionTransactionMeta,
	CollectionPeriodMeta,
	CollectionChapters,
	CollectionNarratives,
	CollectionMigration,
	CollectionLegacy,
}

// Document is one stored record: an owner-scoped ID and a JSON body.
type Document struct {
	ID        string
	OwnerID   string
	Data      json.RawMessage
	CreatedAt Time
	UpdatedAt Time
}

// Store is the backend-agnostic document store. Callers attach to a
// backend, access collections by name, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// collection operations return ErrStoreDetached.
	Detach() error

	// Collection returns the accessor for the given collection name.
	// Returns ErrCollectionNotFound for unknown names.
	Collection(name string) (Collection, error)

	// Batch returns a new write batch. Staged writes become visible
	// all at once on Commit, or not at all.
	Batch() (Batch, error)
}

// Collection provides uniform document operations for one collection.
type Collection interface {
	// Get retrieves the document with the given owner and ID.
	// Returns ErrNotFound if absent.
	Get(ctx context.Context, ownerID, id string) (*Document, error)

	// Put creates or replaces the document.
	Put(ctx context.Context, ownerID, id string, data json.RawMessage) error

	// Delete removes the document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, ownerID, id string) error

	// List returns the owner's documents matching the filter. Filters
	// are equality-only, keyed by top-level JSON field name; a nil or
	// empty filter returns everything. Results are ordered by ID.
	List(ctx context.Context, ownerID string, filter map[string]any) ([]*Document, error)
}

// Batch stages writes across collections and commits them atomically.
type Batch interface {
	Put(collection, ownerID, id string, data json.RawMessage)
	Delete(collection, ownerID, id string)

	// Commit applies every staged write in one transaction. On error no
	// staged write is visible. A batch cannot be reused after Commit.
	Commit(ctx context.Context) error
}

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
