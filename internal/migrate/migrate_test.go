package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/internal/sqlite"
	"github.com/semilla-app/semilla/pkg/types"
)

const testOwner = "papa"

// setupEngine attaches an isolated backend, seeds the demo legacy records
// and wires a migration engine plus record stores for assertions.
func setupEngine(t *testing.T) (*Engine, *sqlite.Backend, *records.Stores) {
	t.Helper()
	backend := sqlite.NewBackend()
	err := backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { backend.Detach() })
	identity := types.StaticIdentity{User: types.User{ID: testOwner}}
	engine := New(backend, identity, zerolog.Nop())
	return engine, backend, records.New(backend, identity)
}

func seedDemo(t *testing.T, backend *sqlite.Backend) {
	t.Helper()
	if err := backend.SeedDemo(context.Background(), testOwner); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
}

func TestRunSplitsLegacyRecords(t *testing.T) {
	engine, backend, stores := setupEngine(t)
	ctx := context.Background()
	seedDemo(t, backend)

	result, err := engine.Run(ctx, testOwner)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MigratedCount != 5 || result.CreatedFinancialCount != 5 {
		t.Fatalf("expected 5 migrated records, got %+v", result)
	}
	// Only lg-0001, lg-0002 and lg-0004 carry a note, milestone or photo.
	if result.CreatedMetadataCount != 3 {
		t.Fatalf("expected 3 metadata records, got %d", result.CreatedMetadataCount)
	}
	if result.SkippedCount != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected clean first run, got %+v", result)
	}

	// The financial record keeps the legacy ID; commission becomes fees.
	tx, err := stores.Financial.Get(ctx, testOwner, "lg-0002")
	if err != nil {
		t.Fatal(err)
	}
	if tx.Kind != types.TransactionBuy || tx.Ticker != "VWCE" {
		t.Fatalf("facts did not carry over: %+v", tx)
	}
	if !tx.Fees.Equal(decimal.RequireFromString("1.50")) {
		t.Fatalf("expected commission mapped to fees 1.50, got %s", tx.Fees)
	}
	if tx.MetadataID == nil || *tx.MetadataID != records.MetadataIDFor("lg-0002") {
		t.Fatalf("expected metadata back-reference, got %v", tx.MetadataID)
	}

	meta, err := stores.Metadata.Get(ctx, testOwner, records.MetadataIDFor("lg-0002"))
	if err != nil {
		t.Fatal(err)
	}
	if meta.TransactionID != "lg-0002" {
		t.Fatalf("expected transaction back-reference, got %q", meta.TransactionID)
	}
	if meta.CurrentVersion != 1 || meta.Current().Milestone != types.MilestoneBirthday {
		t.Fatalf("unexpected migrated metadata: %+v", meta)
	}

	// Records without story fields get no metadata at all.
	bare, err := stores.Financial.Get(ctx, testOwner, "lg-0003")
	if err != nil {
		t.Fatal(err)
	}
	if bare.MetadataID != nil {
		t.Fatalf("expected no metadata for bare record, got %v", *bare.MetadataID)
	}
	if _, err := stores.Metadata.Get(ctx, testOwner, records.MetadataIDFor("lg-0003")); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected no metadata record, got %v", err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	engine, backend, _ := setupEngine(t)
	ctx := context.Background()
	seedDemo(t, backend)

	if _, err := engine.Run(ctx, testOwner); err != nil {
		t.Fatal(err)
	}
	second, err := engine.Run(ctx, testOwner)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.MigratedCount != 0 || second.CreatedMetadataCount != 0 {
		t.Fatalf("rerun migrated records again: %+v", second)
	}
	if second.SkippedCount != 5 {
		t.Fatalf("expected all 5 records skipped, got %d", second.SkippedCount)
	}
}

func TestRunIsolatesMalformedRecords(t *testing.T) {
	engine, backend, stores := setupEngine(t)
	ctx := context.Background()
	seedDemo(t, backend)

	legacy, err := backend.Collection(types.CollectionLegacy)
	if err != nil {
		t.Fatal(err)
	}
	// Valid JSON, but no date: conversion must fail for this record only.
	if err := legacy.Put(ctx, testOwner, "lg-bad", []byte(`{"id":"lg-bad","currency":"EUR"}`)); err != nil {
		t.Fatal(err)
	}

	result, err := engine.Run(ctx, testOwner)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MigratedCount != 5 {
		t.Fatalf("good records must still migrate, got %d", result.MigratedCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one conversion error, got %v", result.Errors)
	}
	if _, err := stores.Financial.Get(ctx, testOwner, "lg-bad"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("malformed record must not produce a financial record, got %v", err)
	}
}

func TestRunDefaultsMissingKind(t *testing.T) {
	engine, backend, stores := setupEngine(t)
	ctx := context.Background()

	legacy, err := backend.Collection(types.CollectionLegacy)
	if err != nil {
		t.Fatal(err)
	}
	rec := types.LegacyInvestment{
		ID:          "lg-nokind",
		Date:        types.Now(),
		TotalAmount: decimal.NewFromInt(50),
		Currency:    "EUR",
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := legacy.Put(ctx, testOwner, rec.ID, raw); err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Run(ctx, testOwner); err != nil {
		t.Fatal(err)
	}
	tx, err := stores.Financial.Get(ctx, testOwner, "lg-nokind")
	if err != nil {
		t.Fatal(err)
	}
	if tx.Kind != types.TransactionContribution {
		t.Fatalf("expected default kind contribution, got %q", tx.Kind)
	}
}

func TestRunWritesStatus(t *testing.T) {
	engine, backend, _ := setupEngine(t)
	ctx := context.Background()
	seedDemo(t, backend)

	if _, err := engine.Status(ctx, testOwner); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected no status before a run, got %v", err)
	}

	if _, err := engine.Run(ctx, testOwner); err != nil {
		t.Fatal(err)
	}
	status, err := engine.Status(ctx, testOwner)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Version != types.DataModelVersion {
		t.Fatalf("expected data model version %q, got %q", types.DataModelVersion, status.Version)
	}
	if status.Stats.Migrated != 5 || status.Stats.CreatedMetadata != 3 || status.Stats.Failed != 0 {
		t.Fatalf("unexpected status stats: %+v", status.Stats)
	}
	if status.CompletedAt.IsZero() || status.StartedAt.IsZero() {
		t.Fatal("expected run timestamps")
	}
}

func TestRunOwnerGuard(t *testing.T) {
	engine, _, _ := setupEngine(t)
	if _, err := engine.Run(context.Background(), "otra-familia"); !errors.Is(err, types.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := engine.Run(context.Background(), ""); !errors.Is(err, types.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
