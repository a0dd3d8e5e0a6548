// This file implements the metadata store: versioned transaction metadata
// (0 or 1 per financial transaction) and versioned year-scoped period
// metadata.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/semilla-app/semilla/pkg/types"
)

// MetadataStore is the record store for the metadata layer.
type MetadataStore struct {
	base
}

// MetadataIDFor derives the deterministic metadata record ID for a
// transaction. Migration relies on this for idempotence.
func MetadataIDFor(transactionID string) string {
	return "meta-" + transactionID
}

// PeriodIDFor derives the deterministic record ID for a year's period
// metadata, making save-by-year a single conditional write.
func PeriodIDFor(year int) string {
	return fmt.Sprintf("py-%d", year)
}

// CreateForTransaction creates the metadata record for a transaction at
// version 1 and wires the transaction's back-reference in the same atomic
// batch. A transaction can have at most one metadata record.
func (s *MetadataStore) CreateForTransaction(ctx context.Context, ownerID, transactionID string, fields types.MetadataFields) (*types.TransactionMetadata, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	if transactionID == "" {
		return nil, types.ErrInvalidID
	}
	if fields.Empty() {
		return nil, fmt.Errorf("%w: metadata needs at least one field", types.ErrInvalidData)
	}

	// The transaction must exist, and must not already carry metadata.
	var tx types.FinancialTransaction
	if err := s.getJSON(ctx, types.CollectionFinancial, ownerID, transactionID, &tx); err != nil {
		return nil, err
	}
	if tx.MetadataID != nil {
		return nil, fmt.Errorf("%w: transaction %s already has metadata %s", types.ErrInvalidData, transactionID, *tx.MetadataID)
	}

	meta := &types.TransactionMetadata{
		Versioned:     newVersioned(MetadataIDFor(transactionID), fields),
		TransactionID: transactionID,
	}
	tx.MetadataID = &meta.ID
	tx.UpdatedAt = types.Now()

	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	txRaw, err := json.Marshal(&tx)
	if err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}

	batch, err := s.store.Batch()
	if err != nil {
		return nil, err
	}
	batch.Put(types.CollectionTransactionMeta, ownerID, meta.ID, metaRaw)
	batch.Put(types.CollectionFinancial, ownerID, transactionID, txRaw)
	if err := batch.Commit(ctx); err != nil {
		return nil, err
	}
	return meta, nil
}

// Get retrieves one transaction metadata record.
func (s *MetadataStore) Get(ctx context.Context, ownerID, id string) (*types.TransactionMetadata, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	var meta types.TransactionMetadata
	if err := s.getJSON(ctx, types.CollectionTransactionMeta, ownerID, id, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// List returns the owner's transaction metadata records matching the
// equality filter.
func (s *MetadataStore) List(ctx context.Context, ownerID string, filter map[string]any) ([]types.TransactionMetadata, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	return listJSON[types.TransactionMetadata](ctx, s.base, types.CollectionTransactionMeta, ownerID, filter)
}

// Update appends the next version: the patch is merged over the current
// snapshot (absent patch fields keep their current values) and history is
// left untouched.
func (s *MetadataStore) Update(ctx context.Context, ownerID, id string, patch types.MetadataPatch, editNote string) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	meta, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	appendVersion(&meta.Versioned, patch.Apply(meta.Current()), editNote)
	return s.putJSON(ctx, types.CollectionTransactionMeta, ownerID, id, meta)
}

// Delete removes a metadata record and clears the transaction's
// back-reference in the same atomic batch.
func (s *MetadataStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	meta, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	batch, err := s.store.Batch()
	if err != nil {
		return err
	}
	batch.Delete(types.CollectionTransactionMeta, ownerID, id)

	// Clear the back-reference when the transaction still exists.
	var tx types.FinancialTransaction
	err = s.getJSON(ctx, types.CollectionFinancial, ownerID, meta.TransactionID, &tx)
	switch {
	case err == nil:
		tx.MetadataID = nil
		tx.UpdatedAt = types.Now()
		txRaw, err := json.Marshal(&tx)
		if err != nil {
			return fmt.Errorf("encoding transaction: %w", err)
		}
		batch.Put(types.CollectionFinancial, ownerID, tx.ID, txRaw)
	case isNotFound(err):
		// Orphaned metadata; just remove it.
	default:
		return err
	}

	return batch.Commit(ctx)
}

// SavePeriod upserts the period metadata for a year: a versioned update
// when the year already has a record, creation at version 1 otherwise. The
// deterministic record ID makes this one logical write.
func (s *MetadataStore) SavePeriod(ctx context.Context, ownerID string, year int, fields types.PeriodFields, editNote string) (*types.PeriodMetadata, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	if year < 1900 || year > 2200 {
		return nil, fmt.Errorf("%w: implausible year %d", types.ErrInvalidData, year)
	}

	id := PeriodIDFor(year)
	var period types.PeriodMetadata
	err := s.getJSON(ctx, types.CollectionPeriodMeta, ownerID, id, &period)
	switch {
	case err == nil:
		appendVersion(&period.Versioned, fields, editNote)
	case isNotFound(err):
		period = types.PeriodMetadata{
			Versioned: newVersioned(id, fields),
			Year:      year,
		}
	default:
		return nil, err
	}

	if err := s.putJSON(ctx, types.CollectionPeriodMeta, ownerID, id, &period); err != nil {
		return nil, err
	}
	return &period, nil
}

// ListPeriods returns the owner's period metadata matching the filter.
func (s *MetadataStore) ListPeriods(ctx context.Context, ownerID string, filter map[string]any) ([]types.PeriodMetadata, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	return listJSON[types.PeriodMetadata](ctx, s.base, types.CollectionPeriodMeta, ownerID, filter)
}
