// Package migrate implements the legacy migration engine: it splits each
// flat single-table investment record into a financial transaction plus an
// optional metadata record, commits the whole pass as one atomic batch, and
// tracks the run in a singleton status record.
//
// Idempotence anchor: the financial record keeps the legacy record's ID, so
// a rerun finds the ID already present and skips it. No mutual exclusion is
// attempted across concurrent runs; deterministic IDs make the store's
// last-write-wins de-duplicate.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/internal/retry"
	"github.com/semilla-app/semilla/pkg/types"
)

// Engine runs and verifies legacy migrations.
type Engine struct {
	store    types.Store
	identity types.Identity
	log      zerolog.Logger
}

// New wires a migration engine.
func New(store types.Store, identity types.Identity, log zerolog.Logger) *Engine {
	return &Engine{store: store, identity: identity, log: log}
}

// authorize checks the caller against the owner namespace before any I/O.
func (e *Engine) authorize(ownerID string) error {
	if ownerID == "" {
		return types.ErrInvalidID
	}
	user, err := e.identity.CurrentUser()
	if err != nil {
		return err
	}
	if user.ID != ownerID {
		return types.ErrPermissionDenied
	}
	return nil
}

// Run migrates all of the owner's legacy records into the three-layer
// model. Per-record conversion failures are collected in the result and do
// not abort the batch; the returned error covers only whole-run failures
// (authorization, backend, commit).
func (e *Engine) Run(ctx context.Context, ownerID string) (*types.MigrationResult, error) {
	if err := e.authorize(ownerID); err != nil {
		return nil, err
	}
	started := time.Now()
	result := &types.MigrationResult{}

	legacyColl, err := e.store.Collection(types.CollectionLegacy)
	if err != nil {
		return nil, err
	}
	financialColl, err := e.store.Collection(types.CollectionFinancial)
	if err != nil {
		return nil, err
	}

	var legacyDocs []*types.Document
	if err := retry.Read.Do(ctx, func() error {
		docs, err := legacyColl.List(ctx, ownerID, nil)
		if err != nil {
			return err
		}
		legacyDocs = docs
		return nil
	}); err != nil {
		return nil, fmt.Errorf("fetching legacy records: %w", err)
	}

	var existingDocs []*types.Document
	if err := retry.Read.Do(ctx, func() error {
		docs, err := financialColl.List(ctx, ownerID, nil)
		if err != nil {
			return err
		}
		existingDocs = docs
		return nil
	}); err != nil {
		return nil, fmt.Errorf("fetching financial records: %w", err)
	}
	existing := make(map[string]bool, len(existingDocs))
	for _, doc := range existingDocs {
		existing[doc.ID] = true
	}

	batch, err := e.store.Batch()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(legacyDocs))
	for _, doc := range legacyDocs {
		if seen[doc.ID] || existing[doc.ID] {
			result.SkippedCount++
			continue
		}
		seen[doc.ID] = true

		if err := e.stageRecord(batch, ownerID, doc, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %s: %v", doc.ID, err))
			e.log.Warn().Str("record", doc.ID).Err(err).Msg("skipping malformed legacy record")
			continue
		}
		result.MigratedCount++
	}

	if err := retry.Persist.Do(ctx, func() error {
		return batch.Commit(ctx)
	}); err != nil {
		return nil, fmt.Errorf("committing migration batch: %w", err)
	}

	result.DurationMs = time.Since(started).Milliseconds()

	status := types.MigrationStatus{
		Version:     types.DataModelVersion,
		StartedAt:   types.NewTime(started),
		CompletedAt: types.Now(),
		Stats: types.MigrationStats{
			Migrated:         result.MigratedCount,
			CreatedFinancial: result.CreatedFinancialCount,
			CreatedMetadata:  result.CreatedMetadataCount,
			Skipped:          result.SkippedCount,
			Failed:           len(result.Errors),
		},
	}
	if err := e.writeStatus(ctx, ownerID, status); err != nil {
		return nil, fmt.Errorf("writing migration status: %w", err)
	}

	e.log.Info().
		Int("migrated", result.MigratedCount).
		Int("skipped", result.SkippedCount).
		Int("errors", len(result.Errors)).
		Int64("durationMs", result.DurationMs).
		Msg("migration run complete")

	return result, nil
}

// stageRecord converts one legacy record and stages its writes. The split:
// hard financial facts keep the legacy ID; note/milestone/photo become a
// metadata record only when at least one is present.
func (e *Engine) stageRecord(batch types.Batch, ownerID string, doc *types.Document, result *types.MigrationResult) error {
	var legacy types.LegacyInvestment
	if err := json.Unmarshal(doc.Data, &legacy); err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	if legacy.ID == "" {
		legacy.ID = doc.ID
	}
	if legacy.ID != doc.ID {
		return fmt.Errorf("%w: body ID %q does not match record ID", types.ErrInvalidData, legacy.ID)
	}
	if legacy.Date.IsZero() {
		return fmt.Errorf("%w: missing date", types.ErrInvalidData)
	}
	kind := legacy.Kind
	if kind == "" {
		kind = types.TransactionContribution
	}
	if !types.ValidTransactionKind(kind) {
		return fmt.Errorf("%w: unknown kind %q", types.ErrInvalidData, kind)
	}

	now := types.Now()
	tx := types.FinancialTransaction{
		ID:           legacy.ID,
		OwnerID:      ownerID,
		Date:         legacy.Date,
		Kind:         kind,
		Ticker:       legacy.Ticker,
		Units:        legacy.Units,
		PricePerUnit: legacy.PricePerUnit,
		TotalAmount:  legacy.TotalAmount,
		Fees:         legacy.Commission,
		Currency:     legacy.Currency,
		CreatedAt:    legacy.CreatedAt,
		UpdatedAt:    now,
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}

	fields := types.MetadataFields{
		Reason:    legacy.Note,
		Milestone: legacy.Milestone,
		PhotoURL:  legacy.PhotoURL,
	}
	if !fields.Empty() {
		meta := types.TransactionMetadata{
			Versioned:     types.Versioned[types.MetadataFields]{},
			TransactionID: legacy.ID,
		}
		meta.ID = records.MetadataIDFor(legacy.ID)
		meta.CurrentVersion = 1
		meta.Versions = []types.Version[types.MetadataFields]{{
			Number:    1,
			Timestamp: now,
			Fields:    fields,
			EditNote:  "migrated from legacy record",
		}}
		meta.CreatedAt = now
		meta.UpdatedAt = now

		metaRaw, err := json.Marshal(&meta)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		batch.Put(types.CollectionTransactionMeta, ownerID, meta.ID, metaRaw)
		tx.MetadataID = &meta.ID
		result.CreatedMetadataCount++
	}

	txRaw, err := json.Marshal(&tx)
	if err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}
	batch.Put(types.CollectionFinancial, ownerID, tx.ID, txRaw)
	result.CreatedFinancialCount++
	return nil
}

// writeStatus persists the singleton migration status record.
func (e *Engine) writeStatus(ctx context.Context, ownerID string, status types.MigrationStatus) error {
	coll, err := e.store.Collection(types.CollectionMigration)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(&status)
	if err != nil {
		return err
	}
	return retry.Persist.Do(ctx, func() error {
		return coll.Put(ctx, ownerID, types.MigrationStatusID, raw)
	})
}

// Status returns the owner's migration status, or ErrNotFound when no run
// has completed.
func (e *Engine) Status(ctx context.Context, ownerID string) (*types.MigrationStatus, error) {
	if err := e.authorize(ownerID); err != nil {
		return nil, err
	}
	coll, err := e.store.Collection(types.CollectionMigration)
	if err != nil {
		return nil, err
	}
	var doc *types.Document
	if err := retry.Read.Do(ctx, func() error {
		d, err := coll.Get(ctx, ownerID, types.MigrationStatusID)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}); err != nil {
		return nil, err
	}
	var status types.MigrationStatus
	if err := json.Unmarshal(doc.Data, &status); err != nil {
		return nil, fmt.Errorf("decoding migration status: %w", err)
	}
	return &status, nil
}
