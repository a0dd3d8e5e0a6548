package export

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/internal/sqlite"
	"github.com/semilla-app/semilla/pkg/types"
)

const testOwner = "papa"

var testChild = types.ChildInfo{
	Name:      "Lucia",
	BirthDate: types.NewTime(time.Date(2019, 6, 12, 0, 0, 0, 0, time.UTC)),
}

// testNow keeps the unlock gate deterministic: the child is 5.
var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// setupExporter wires an exporter over a real backend and returns the
// stores for seeding content.
func setupExporter(t *testing.T) (*Exporter, *records.Stores) {
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

	stores := records.New(backend, types.StaticIdentity{User: types.User{ID: testOwner}})
	prices := types.StaticPrices{"VWCE": decimal.NewFromInt(110)}
	exporter := New(stores, prices, testChild, "test", zerolog.Nop())
	exporter.now = func() time.Time { return testNow }
	return exporter, stores
}

func intPtr(i int) *int { return &i }

// seedContent writes one record into every layer: two transactions (one
// with metadata), a period, two narratives, an open chapter and a locked
// one.
func seedContent(t *testing.T, stores *records.Stores) {
	t.Helper()
	ctx := context.Background()

	tx, err := stores.Financial.Create(ctx, testOwner, types.TransactionFields{
		Date:        types.NewTime(time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)),
		Kind:        types.TransactionBuy,
		Ticker:      "VWCE",
		Units:       decimal.NewFromInt(2),
		TotalAmount: decimal.NewFromInt(200),
		Currency:    "EUR",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Financial.Create(ctx, testOwner, types.TransactionFields{
		Date:        types.NewTime(time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)),
		Kind:        types.TransactionContribution,
		TotalAmount: decimal.NewFromInt(100),
		Currency:    "EUR",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Metadata.CreateForTransaction(ctx, testOwner, tx.ID, types.MetadataFields{
		Reason:   "compra anual",
		PhotoURL: "https://photos.example/2021.jpg",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Metadata.SavePeriod(ctx, testOwner, 2021, types.PeriodFields{Summary: "buen ano"}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Narratives.Save(ctx, testOwner, 2021, types.NarrativeFields{Body: "el ano 2021"}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Narratives.Save(ctx, testOwner, 2022, types.NarrativeFields{Body: "el ano 2022"}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Chapters.Create(ctx, testOwner, types.ChapterFields{
		Title:       "Por que empezamos",
		Content:     "abierto",
		LinkedYears: []int{2021},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Chapters.Create(ctx, testOwner, types.ChapterFields{
		Title:     "Para tus 18",
		Content:   "cerrado",
		UnlockAge: intPtr(18),
	}); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotAssemblesAllLayers(t *testing.T) {
	exporter, stores := setupExporter(t)
	seedContent(t, stores)

	data, result := exporter.Snapshot(context.Background(), testOwner, types.ExportOptions{})
	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}

	counts := map[string]int{
		"transactions":        2,
		"transactionMetadata": 1,
		"periodMetadata":      1,
		"chapters":            1, // locked one dropped
		"yearlyNarratives":    2,
	}
	for key, want := range counts {
		if got := result.ItemCounts[key]; got != want {
			t.Errorf("ItemCounts[%q] = %d, want %d", key, got, want)
		}
	}

	if data.ExportVersion != types.ExportVersion {
		t.Fatalf("expected export version %q, got %q", types.ExportVersion, data.ExportVersion)
	}
	if data.ChildInfo.Name != "Lucia" {
		t.Fatalf("child info missing: %+v", data.ChildInfo)
	}
	if !data.Financial.Portfolio.TotalInvested.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected invested 300, got %s", data.Financial.Portfolio.TotalInvested)
	}
	for _, layer := range []string{types.LayerFinancial, types.LayerMetadata, types.LayerEmotional} {
		if len(data.Checksums[layer]) != 64 {
			t.Errorf("layer %q: expected hex SHA-256 checksum, got %q", layer, data.Checksums[layer])
		}
	}
}

func TestSnapshotLockedChapters(t *testing.T) {
	exporter, stores := setupExporter(t)
	seedContent(t, stores)
	ctx := context.Background()

	t.Run("dropped by default with warning", func(t *testing.T) {
		data, result := exporter.Snapshot(ctx, testOwner, types.ExportOptions{})
		if len(data.Emotional.Chapters) != 1 {
			t.Fatalf("expected 1 chapter, got %d", len(data.Emotional.Chapters))
		}
		if len(result.Warnings) != 1 || result.Warnings[0] != "1 capitulos bloqueados no fueron incluidos" {
			t.Fatalf("expected locked-chapter warning, got %v", result.Warnings)
		}
	})

	t.Run("kept on request with content", func(t *testing.T) {
		opts := types.ExportOptions{IncludeLockedChapters: true}
		data, result := exporter.Snapshot(ctx, testOwner, opts)
		if len(data.Emotional.Chapters) != 2 {
			t.Fatalf("expected 2 chapters, got %d", len(data.Emotional.Chapters))
		}
		if len(result.Warnings) != 0 {
			t.Fatalf("unexpected warnings: %v", result.Warnings)
		}
		for _, ch := range data.Emotional.Chapters {
			if ch.Current().Content == "" {
				t.Fatalf("chapter %q exported without content", ch.Current().Title)
			}
		}
	})
}

func TestSnapshotCollapsesHistory(t *testing.T) {
	exporter, stores := setupExporter(t)
	seedContent(t, stores)
	ctx := context.Background()

	// Grow a 3-version chain on the 2021 narrative.
	for _, body := range []string{"segunda", "tercera"} {
		if _, err := stores.Narratives.Save(ctx, testOwner, 2021, types.NarrativeFields{Body: body}, ""); err != nil {
			t.Fatal(err)
		}
	}

	data, _ := exporter.Snapshot(ctx, testOwner, types.ExportOptions{})
	for _, n := range data.Emotional.YearlyNarratives {
		if len(n.Versions) != 1 {
			t.Fatalf("expected collapsed history, narrative %d has %d versions", n.Year, len(n.Versions))
		}
	}
	var y2021 types.YearlyNarrative
	for _, n := range data.Emotional.YearlyNarratives {
		if n.Year == 2021 {
			y2021 = n
		}
	}
	if y2021.Current().Body != "tercera" {
		t.Fatalf("collapse must keep the latest version, got %q", y2021.Current().Body)
	}

	full, _ := exporter.Snapshot(ctx, testOwner, types.ExportOptions{PreserveVersionHistory: true})
	for _, n := range full.Emotional.YearlyNarratives {
		if n.Year == 2021 && len(n.Versions) != 3 {
			t.Fatalf("expected full 3-version chain, got %d", len(n.Versions))
		}
	}
}

func TestSnapshotYearRange(t *testing.T) {
	exporter, stores := setupExporter(t)
	seedContent(t, stores)
	ctx := context.Background()

	// An undated chapter belongs to no particular year and always ships.
	if _, err := stores.Chapters.Create(ctx, testOwner, types.ChapterFields{
		Title: "Sin ano", Content: "siempre",
	}); err != nil {
		t.Fatal(err)
	}

	opts := types.ExportOptions{YearRange: &types.YearRange{From: 2022, To: 2022}}
	data, result := exporter.Snapshot(ctx, testOwner, opts)
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Errors)
	}

	if len(data.Emotional.YearlyNarratives) != 1 || data.Emotional.YearlyNarratives[0].Year != 2022 {
		t.Fatalf("expected only the 2022 narrative, got %+v", data.Emotional.YearlyNarratives)
	}
	if len(data.Metadata.PeriodMetadata) != 0 {
		t.Fatalf("expected 2021 period filtered out, got %d", len(data.Metadata.PeriodMetadata))
	}
	// Transaction metadata has no date and is never filtered.
	if len(data.Metadata.TransactionMetadata) != 1 {
		t.Fatalf("expected transaction metadata kept, got %d", len(data.Metadata.TransactionMetadata))
	}
	// The 2021-linked chapter is out, the undated one stays.
	if len(data.Emotional.Chapters) != 1 || data.Emotional.Chapters[0].Current().Title != "Sin ano" {
		t.Fatalf("unexpected chapters: %+v", data.Emotional.Chapters)
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	exporter, _ := setupExporter(t)
	data, result := exporter.Snapshot(context.Background(), testOwner, types.ExportOptions{})
	if !result.Success {
		t.Fatalf("empty store must still export, got %v", result.Errors)
	}
	if result.ItemCounts["transactions"] != 0 {
		t.Fatalf("unexpected counts: %v", result.ItemCounts)
	}
	if len(data.Checksums) != 3 {
		t.Fatalf("expected a checksum per layer, got %v", data.Checksums)
	}
}
