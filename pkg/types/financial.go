package types

import "github.com/shopspring/decimal"

// Transaction kinds.
const (
	TransactionBuy          = "buy"
	TransactionContribution = "contribution"
	TransactionDividend     = "dividend"
	TransactionFee          = "fee"
)

// validTransactionKinds is the set of recognized transaction kinds.
var validTransactionKinds = map[string]bool{
	TransactionBuy:          true,
	TransactionContribution: true,
	TransactionDividend:     true,
	TransactionFee:          true,
}

// ValidTransactionKind reports whether kind is a recognized transaction kind.
func ValidTransactionKind(kind string) bool {
	return validTransactionKinds[kind]
}

// FinancialTransaction is a hard financial fact: what was bought, when, for
// how much. Facts are not versioned; corrections replace the record.
type FinancialTransaction struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`

	// Date is the trade or contribution date.
	Date Time `json:"date"`

	// Kind is one of the Transaction* constants.
	Kind string `json:"kind"`

	// Ticker identifies the instrument; empty for pure cash contributions.
	Ticker string `json:"ticker,omitempty"`

	Units        decimal.Decimal `json:"units"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Fees         decimal.Decimal `json:"fees"`

	// Currency is the ISO 4217 code of the amounts above.
	Currency string `json:"currency"`

	// MetadataID back-references the TransactionMetadata record that tells
	// this transaction's story; nil when no story was recorded.
	MetadataID *string `json:"metadataId,omitempty"`

	CreatedAt Time `json:"createdAt"`
	UpdatedAt Time `json:"updatedAt"`
}

// TransactionFields are the mutable fields accepted on create; the store
// assigns ID, OwnerID and the timestamps.
type TransactionFields struct {
	Date         Time            `json:"date"`
	Kind         string          `json:"kind"`
	Ticker       string          `json:"ticker,omitempty"`
	Units        decimal.Decimal `json:"units"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Fees         decimal.Decimal `json:"fees"`
	Currency     string          `json:"currency"`
}

// InstrumentSummary aggregates one instrument's position inside a
// PortfolioSummary. Slices of these are always sorted by ticker so that
// serialization is deterministic.
type InstrumentSummary struct {
	Ticker        string          `json:"ticker"`
	Units         decimal.Decimal `json:"units"`
	Invested      decimal.Decimal `json:"invested"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	ReturnPercent decimal.Decimal `json:"returnPercent"`
	Transactions  int             `json:"transactions"`
}

// PortfolioSummary is the aggregate view of the financial layer computed at
// export time. It is derived data and never persisted.
type PortfolioSummary struct {
	TotalInvested    decimal.Decimal     `json:"totalInvested"`
	TotalFees        decimal.Decimal     `json:"totalFees"`
	CurrentValue     decimal.Decimal     `json:"currentValue"`
	Instruments      []InstrumentSummary `json:"instruments"`
	TransactionCount int                 `json:"transactionCount"`
	FirstDate        Time                `json:"firstDate"`
	LastDate         Time                `json:"lastDate"`
}
