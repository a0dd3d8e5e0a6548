// Package export implements the export/import engine: it assembles a
// cross-layer snapshot, stamps each layer with a checksum, serializes the
// bundle as JSON, HTML or ZIP, and on the way back parses and verifies a
// bundle independently of the application that wrote it.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/semilla-app/semilla/internal/records"
	"github.com/semilla-app/semilla/internal/versioning"
	"github.com/semilla-app/semilla/pkg/types"
)

// Exporter assembles export snapshots from the record stores.
type Exporter struct {
	stores     *records.Stores
	prices     types.PriceSource
	child      types.ChildInfo
	appVersion string
	log        zerolog.Logger

	// now is the clock, overridable in tests of the unlock gate.
	now func() time.Time
}

// New wires an exporter. prices may be nil; the portfolio aggregate then
// omits current values.
func New(stores *records.Stores, prices types.PriceSource, child types.ChildInfo, appVersion string, log zerolog.Logger) *Exporter {
	return &Exporter{
		stores:     stores,
		prices:     prices,
		child:      child,
		appVersion: appVersion,
		log:        log,
		now:        time.Now,
	}
}

// Snapshot builds the point-in-time export aggregate. Each layer is
// assembled and fault-isolated independently: a failing layer keeps its
// zero shape and appends to Errors while the others proceed. Success is
// true iff no layer reported a hard error; warnings never affect it.
func (e *Exporter) Snapshot(ctx context.Context, ownerID string, opts types.ExportOptions) (*types.FullExportData, *types.ExportResult) {
	result := &types.ExportResult{
		ItemCounts: make(map[string]int),
	}
	data := &types.FullExportData{
		ExportDate:    types.NewTime(e.now()),
		ExportVersion: types.ExportVersion,
		AppVersion:    e.appVersion,
		ChildInfo:     e.child,
		Checksums:     make(map[string]string),
	}

	if financial, err := e.financialLayer(ctx, ownerID); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("financial layer: %v", err))
		e.log.Error().Err(err).Msg("financial layer export failed")
	} else {
		data.Financial = *financial
		result.ItemCounts["transactions"] = len(financial.Transactions)
	}

	if metadata, err := e.metadataLayer(ctx, ownerID, opts); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("metadata layer: %v", err))
		e.log.Error().Err(err).Msg("metadata layer export failed")
	} else {
		data.Metadata = *metadata
		result.ItemCounts["transactionMetadata"] = len(metadata.TransactionMetadata)
		result.ItemCounts["periodMetadata"] = len(metadata.PeriodMetadata)
	}

	if emotional, warnings, err := e.emotionalLayer(ctx, ownerID, opts); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("emotional layer: %v", err))
		e.log.Error().Err(err).Msg("emotional layer export failed")
	} else {
		data.Emotional = *emotional
		result.Warnings = append(result.Warnings, warnings...)
		result.ItemCounts["chapters"] = len(emotional.Chapters)
		result.ItemCounts["yearlyNarratives"] = len(emotional.YearlyNarratives)
	}

	// One checksum per layer, over the same serialization the bundle
	// carries; verify recomputes with the identical function.
	for _, layer := range []struct {
		name string
		data any
	}{
		{types.LayerFinancial, data.Financial},
		{types.LayerMetadata, data.Metadata},
		{types.LayerEmotional, data.Emotional},
	} {
		sum, err := Checksum(layer.data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s checksum: %v", layer.name, err))
			continue
		}
		data.Checksums[layer.name] = sum
	}

	result.Success = len(result.Errors) == 0
	return data, result
}

// financialLayer fetches the transactions and computes the portfolio
// aggregate.
func (e *Exporter) financialLayer(ctx context.Context, ownerID string) (*types.FinancialLayer, error) {
	txs, err := e.stores.Financial.List(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}
	summary, err := records.Summarize(ctx, txs, e.prices)
	if err != nil {
		return nil, err
	}
	return &types.FinancialLayer{
		Transactions: txs,
		Portfolio:    *summary,
	}, nil
}

// metadataLayer fetches both metadata families. Period metadata is filtered
// by year range; transaction metadata has no direct date and never is.
func (e *Exporter) metadataLayer(ctx context.Context, ownerID string, opts types.ExportOptions) (*types.MetadataLayer, error) {
	txMeta, err := e.stores.Metadata.List(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}
	periods, err := e.stores.Metadata.ListPeriods(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}

	if opts.YearRange != nil {
		kept := periods[:0]
		for _, p := range periods {
			if opts.YearRange.Contains(p.Year) {
				kept = append(kept, p)
			}
		}
		periods = kept
	}

	if !opts.PreserveVersionHistory {
		for i := range txMeta {
			txMeta[i].Versions = versioning.Prune(txMeta[i].Versions, 1)
		}
		for i := range periods {
			periods[i].Versions = versioning.Prune(periods[i].Versions, 1)
		}
	}

	return &types.MetadataLayer{
		TransactionMetadata: txMeta,
		PeriodMetadata:      periods,
	}, nil
}

// emotionalLayer fetches chapters and narratives, applies the locked-chapter
// and year-range filters, and collapses history when asked.
func (e *Exporter) emotionalLayer(ctx context.Context, ownerID string, opts types.ExportOptions) (*types.EmotionalLayer, []string, error) {
	// Content included here; whether locked chapters ship at all is the
	// option below, not a redaction question.
	chapters, err := e.stores.Chapters.List(ctx, ownerID, records.ChapterReadOptions{
		BirthDate:            e.child.BirthDate,
		IncludeLockedContent: true,
	})
	if err != nil {
		return nil, nil, err
	}
	narratives, err := e.stores.Narratives.List(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	if !opts.IncludeLockedChapters {
		now := e.now()
		kept := chapters[:0]
		dropped := 0
		for _, ch := range chapters {
			if records.UnlockStatusFor(ch.Current(), e.child.BirthDate, now).IsLocked {
				dropped++
				continue
			}
			kept = append(kept, ch)
		}
		chapters = kept
		if dropped > 0 {
			warnings = append(warnings,
				fmt.Sprintf("%d capitulos bloqueados no fueron incluidos", dropped))
		}
	}

	if opts.YearRange != nil {
		keptCh := chapters[:0]
		for _, ch := range chapters {
			if linkedYearsIntersect(ch.Current().LinkedYears, *opts.YearRange) {
				keptCh = append(keptCh, ch)
			}
		}
		chapters = keptCh

		keptN := narratives[:0]
		for _, n := range narratives {
			if opts.YearRange.Contains(n.Year) {
				keptN = append(keptN, n)
			}
		}
		narratives = keptN
	}

	if !opts.PreserveVersionHistory {
		for i := range chapters {
			chapters[i].Versions = versioning.Prune(chapters[i].Versions, 1)
		}
		for i := range narratives {
			narratives[i].Versions = versioning.Prune(narratives[i].Versions, 1)
		}
	}

	return &types.EmotionalLayer{
		Chapters:         chapters,
		YearlyNarratives: narratives,
	}, warnings, nil
}

// linkedYearsIntersect reports whether any linked year falls in the range.
// A chapter with no linked years is kept; it belongs to no particular year.
func linkedYearsIntersect(years []int, r types.YearRange) bool {
	if len(years) == 0 {
		return true
	}
	for _, y := range years {
		if r.Contains(y) {
			return true
		}
	}
	return false
}
