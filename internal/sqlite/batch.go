// This file implements atomic write batches for the SQLite backend. A batch
// stages puts and deletes across collections and commits them in one SQL
// transaction: readers never observe a partially applied batch.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// Compile-time interface check.
var _ types.Batch = (*batch)(nil)

// batchOp kinds.
const (
	opPut    = "put"
	opDelete = "delete"
)

// batchOp is one staged write.
type batchOp struct {
	kind       string
	collection string
	ownerID    string
	id         string
	data       json.RawMessage
}

// batch stages writes until Commit.
type batch struct {
	backend   *Backend
	ops       []batchOp
	committed bool
}

// Put stages a create-or-replace of the document.
func (b *batch) Put(collection, ownerID, id string, data json.RawMessage) {
	b.ops = append(b.ops, batchOp{
		kind:       opPut,
		collection: collection,
		ownerID:    ownerID,
		id:         id,
		data:       data,
	})
}

// Delete stages a removal. Deleting an absent document is not an error at
// commit time; the batch expresses desired end state.
func (b *batch) Delete(collection, ownerID, id string) {
	b.ops = append(b.ops, batchOp{
		kind:       opDelete,
		collection: collection,
		ownerID:    ownerID,
		id:         id,
	})
}

// Commit applies every staged write in one transaction. Any staged write
// failing validation or execution rolls the whole batch back. A failed
// commit leaves the batch open so the caller's retry policy can re-run it;
// only a successful commit seals the batch against reuse.
func (b *batch) Commit(ctx context.Context) error {
	if b.committed {
		return errors.New("batch already committed")
	}

	b.backend.mu.RLock()
	attached := b.backend.attached
	db := b.backend.db
	b.backend.mu.RUnlock()
	if !attached {
		return types.ErrStoreDetached
	}

	// Validate before opening the transaction; a malformed op must not
	// leave a half-applied batch behind.
	for _, op := range b.ops {
		if op.id == "" {
			return fmt.Errorf("batch %s %s: %w", op.kind, op.collection, types.ErrInvalidID)
		}
		if op.kind == opPut && !json.Valid(op.data) {
			return fmt.Errorf("batch put %s/%s: %w", op.collection, op.id, types.ErrInvalidData)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, op := range b.ops {
		switch op.kind {
		case opPut:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO documents (collection, owner_id, record_id, doc, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (collection, owner_id, record_id)
				 DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
				op.collection, op.ownerID, op.id, string(op.data), now, now,
			)
		case opDelete:
			_, err = tx.ExecContext(ctx,
				"DELETE FROM documents WHERE collection = ? AND owner_id = ? AND record_id = ?",
				op.collection, op.ownerID, op.id,
			)
		}
		if err != nil {
			return fmt.Errorf("batch %s %s/%s: %w", op.kind, op.collection, op.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	b.committed = true
	return nil
}
