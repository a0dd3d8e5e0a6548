package types

import "github.com/shopspring/decimal"

// LegacyInvestment is one row of the retired single-table data model: a
// financial fact and its story flattened into one record. Migration splits
// it into a FinancialTransaction and, when any story field is present, a
// TransactionMetadata record.
type LegacyInvestment struct {
	ID           string          `json:"id"`
	Date         Time            `json:"date"`
	Kind         string          `json:"kind"`
	Ticker       string          `json:"ticker,omitempty"`
	Units        decimal.Decimal `json:"units"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`

	// Commission maps to FinancialTransaction.Fees.
	Commission decimal.Decimal `json:"commission"`

	Currency string `json:"currency"`

	// Story fields; any non-empty one produces a metadata record.
	Note      string `json:"note,omitempty"`
	Milestone string `json:"milestone,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`

	CreatedAt Time `json:"createdAt"`
}

// MigrationStats are the aggregate counters of one migration run.
type MigrationStats struct {
	Migrated         int `json:"migrated"`
	CreatedFinancial int `json:"createdFinancial"`
	CreatedMetadata  int `json:"createdMetadata"`
	Skipped          int `json:"skipped"`
	Failed           int `json:"failed"`
}

// MigrationStatus is the singleton per-owner record written after a
// successful migration run.
type MigrationStatus struct {
	// Version identifies the data-model version migrated to.
	Version     string         `json:"version"`
	StartedAt   Time           `json:"startedAt"`
	CompletedAt Time           `json:"completedAt"`
	Stats       MigrationStats `json:"stats"`
}

// MigrationStatusID is the fixed record ID of the singleton status document.
const MigrationStatusID = "status"

// DataModelVersion is the version written into MigrationStatus.Version by
// the current migration engine.
const DataModelVersion = "3-layer/1"

// MigrationResult is the structured outcome of one migration run. Errors
// are per-record and human-readable; a populated Errors list does not mean
// the run failed as a whole.
type MigrationResult struct {
	MigratedCount         int      `json:"migratedCount"`
	CreatedFinancialCount int      `json:"createdFinancialCount"`
	CreatedMetadataCount  int      `json:"createdMetadataCount"`
	SkippedCount          int      `json:"skippedCount"`
	Errors                []string `json:"errors,omitempty"`
	Warnings              []string `json:"warnings,omitempty"`
	DurationMs            int64    `json:"durationMs"`
}

// VerifyResult is the outcome of an independent migration verification.
type VerifyResult struct {
	IsValid bool     `json:"isValid"`
	Issues  []string `json:"issues,omitempty"`
}
