// Package records implements the four record stores over the document
// backend: financial transactions, transaction/period metadata, chapters,
// and yearly narratives. Every operation validates the caller against the
// owner namespace before any I/O and routes backend calls through the
// shared retry policy.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/semilla-app/semilla/internal/retry"
	"github.com/semilla-app/semilla/internal/versioning"
	"github.com/semilla-app/semilla/pkg/types"
)

// Stores bundles the four record stores sharing one backend and identity.
type Stores struct {
	Financial  *FinancialStore
	Metadata   *MetadataStore
	Chapters   *ChapterStore
	Narratives *NarrativeStore
}

// New wires the record stores to a backend and an identity provider.
func New(store types.Store, identity types.Identity) *Stores {
	b := base{store: store, identity: identity}
	return &Stores{
		Financial:  &FinancialStore{base: b},
		Metadata:   &MetadataStore{base: b},
		Chapters:   &ChapterStore{base: b},
		Narratives: &NarrativeStore{base: b},
	}
}

// base carries what every store needs: the backend, the identity provider,
// and the owner guard.
type base struct {
	store    types.Store
	identity types.Identity
}

// authorize checks caller identity against the owner namespace. It runs
// synchronously before any backend call; cross-tenant access never reaches
// the store.
func (b base) authorize(ownerID string) error {
	if ownerID == "" {
		return types.ErrInvalidID
	}
	user, err := b.identity.CurrentUser()
	if err != nil {
		return err
	}
	if user.ID != ownerID {
		return types.ErrPermissionDenied
	}
	return nil
}

// getJSON fetches one document and decodes it into out, with the read
// retry budget.
func (b base) getJSON(ctx context.Context, collName, ownerID, id string, out any) error {
	coll, err := b.store.Collection(collName)
	if err != nil {
		return err
	}
	var doc *types.Document
	if err := retry.Read.Do(ctx, func() error {
		d, err := coll.Get(ctx, ownerID, id)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}); err != nil {
		return err
	}
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return fmt.Errorf("decoding %s/%s: %w", collName, id, err)
	}
	return nil
}

// putJSON encodes v and persists it, with the persistence retry budget.
func (b base) putJSON(ctx context.Context, collName, ownerID, id string, v any) error {
	coll, err := b.store.Collection(collName)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collName, id, err)
	}
	return retry.Persist.Do(ctx, func() error {
		return coll.Put(ctx, ownerID, id, raw)
	})
}

// deleteDoc removes one document, with the persistence retry budget.
func (b base) deleteDoc(ctx context.Context, collName, ownerID, id string) error {
	coll, err := b.store.Collection(collName)
	if err != nil {
		return err
	}
	return retry.Persist.Do(ctx, func() error {
		return coll.Delete(ctx, ownerID, id)
	})
}

// listJSON fetches the owner's documents matching the equality filter and
// decodes each into T.
func listJSON[T any](ctx context.Context, b base, collName, ownerID string, filter map[string]any) ([]T, error) {
	coll, err := b.store.Collection(collName)
	if err != nil {
		return nil, err
	}
	var docs []*types.Document
	if err := retry.Read.Do(ctx, func() error {
		d, err := coll.List(ctx, ownerID, filter)
		if err != nil {
			return err
		}
		docs = d
		return nil
	}); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", collName, doc.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// newVersioned starts a version chain at version 1.
func newVersioned[T any](id string, fields T) types.Versioned[T] {
	v := versioning.New(0, fields, "")
	return types.Versioned[T]{
		ID:             id,
		CurrentVersion: v.Number,
		Versions:       []types.Version[T]{v},
		CreatedAt:      v.Timestamp,
		UpdatedAt:      v.Timestamp,
	}
}

// appendVersion appends the next version carrying the merged snapshot and
// advances the chain head. History is never rewritten.
func appendVersion[T any](v *types.Versioned[T], fields T, editNote string) {
	next := versioning.New(v.CurrentVersion, fields, editNote)
	v.Versions = append(v.Versions, next)
	v.CurrentVersion = next.Number
	v.UpdatedAt = next.Timestamp
}

// isNotFound reports whether err is a missing-record error.
func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// newRecordID generates a UUID v7 record ID, falling back to v4.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
