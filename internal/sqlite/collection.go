// This file implements the collection accessor for the SQLite backend:
// document CRUD plus equality-filtered listing.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// Compile-time interface check.
var _ types.Collection = (*collection)(nil)

// collection implements the Collection interface for one named collection.
type collection struct {
	backend *Backend
	name    string
}

// guard returns the live database handle, or ErrStoreDetached.
func (c *collection) guard() (*sql.DB, error) {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()
	if !c.backend.attached {
		return nil, types.ErrStoreDetached
	}
	return c.backend.db, nil
}

// Get retrieves the document with the given owner and ID.
func (c *collection) Get(ctx context.Context, ownerID, id string) (*types.Document, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := c.guard()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		"SELECT record_id, owner_id, doc, created_at, updated_at FROM documents WHERE collection = ? AND owner_id = ? AND record_id = ?",
		c.name, ownerID, id,
	)
	doc, err := hydrateDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting %s/%s: %w", c.name, id, err)
	}
	return doc, nil
}

// Put creates or replaces the document, preserving created_at on replace.
func (c *collection) Put(ctx context.Context, ownerID, id string, data json.RawMessage) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if !json.Valid(data) {
		return types.ErrInvalidData
	}
	db, err := c.guard()
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (collection, owner_id, record_id, doc, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (collection, owner_id, record_id)
		 DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		c.name, ownerID, id, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("putting %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Delete removes the document. Returns ErrNotFound if absent.
func (c *collection) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := c.guard()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND owner_id = ? AND record_id = ?",
		c.name, ownerID, id,
	)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c.name, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c.name, id, err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List returns the owner's documents matching the equality filter, ordered
// by record ID. Filtering happens over the decoded JSON body; the small
// fixed entity set makes a query planner unnecessary.
func (c *collection) List(ctx context.Context, ownerID string, filter map[string]any) ([]*types.Document, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	db, err := c.guard()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT record_id, owner_id, doc, created_at, updated_at FROM documents WHERE collection = ? AND owner_id = ? ORDER BY record_id",
		c.name, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.name, err)
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		doc, err := hydrateDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", c.name, err)
		}
		match, err := matchesFilter(doc.Data, filter)
		if err != nil {
			return nil, fmt.Errorf("filtering %s/%s: %w", c.name, doc.ID, err)
		}
		if match {
			docs = append(docs, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.name, err)
	}
	return docs, nil
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// hydrateDocument scans one row into a Document.
func hydrateDocument(row scannable) (*types.Document, error) {
	var (
		doc                  types.Document
		body                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&doc.ID, &doc.OwnerID, &body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	doc.Data = json.RawMessage(body)

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	doc.CreatedAt = types.NewTime(created)
	doc.UpdatedAt = types.NewTime(updated)
	return &doc, nil
}

// validateFilter rejects filter values that equality filtering cannot
// express: only strings, booleans and numbers are accepted.
func validateFilter(filter map[string]any) error {
	for key, value := range filter {
		if value == nil {
			return fmt.Errorf("%w: filter key %q is nil", types.ErrInvalidFilter, key)
		}
		switch reflect.ValueOf(value).Kind() {
		case reflect.String, reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			return fmt.Errorf("%w: filter key %q has type %T", types.ErrInvalidFilter, key, value)
		}
	}
	return nil
}

// matchesFilter reports whether every filter entry equals the document's
// top-level field of the same name. Both sides are normalized through JSON
// so 2024 (int) matches 2024 (decoded float64).
func matchesFilter(data json.RawMessage, filter map[string]any) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false, err
	}
	for key, want := range filter {
		got, ok := fields[key]
		if !ok {
			return false, nil
		}
		normalized, err := normalizeJSON(want)
		if err != nil {
			return false, err
		}
		if !reflect.DeepEqual(got, normalized) {
			return false, nil
		}
	}
	return true, nil
}

// normalizeJSON round-trips a value through JSON so it compares cleanly
// against decoded document fields.
func normalizeJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
