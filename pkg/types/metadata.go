package types

// Milestone tags recognized on transaction metadata. Free-form tags are
// allowed; these are the ones the family app offers by default.
const (
	MilestoneBirthday        = "birthday"
	MilestoneFirstInvestment = "first-investment"
	MilestoneSchoolYear      = "school-year"
	MilestoneFamilyEvent     = "family-event"
)

// MetadataFields is the versioned payload of a TransactionMetadata record:
// the why behind a financial fact.
type MetadataFields struct {
	// Reason is the short answer to "why did we invest this?".
	Reason string `json:"reason,omitempty"`

	// Context captures the longer decision context at the time.
	Context string `json:"context,omitempty"`

	// Milestone tags the transaction as emotionally significant.
	Milestone string `json:"milestone,omitempty"`

	// PhotoURL references (not embeds) a photo from that moment.
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Empty reports whether no field carries content. Migration only creates a
// metadata record when the legacy record had at least one of these.
func (f MetadataFields) Empty() bool {
	return f.Reason == "" && f.Context == "" && f.Milestone == "" && f.PhotoURL == ""
}

// TransactionMetadata is the versioned context attached to exactly one
// FinancialTransaction. A transaction has zero or one metadata record.
type TransactionMetadata struct {
	Versioned[MetadataFields]

	// TransactionID is the FinancialTransaction this record annotates.
	TransactionID string `json:"transactionId"`
}

// PeriodFields is the versioned payload of a PeriodMetadata record:
// year-scoped context with no single transaction to hang from.
type PeriodFields struct {
	Summary       string `json:"summary,omitempty"`
	MarketContext string `json:"marketContext,omitempty"`
	FamilyContext string `json:"familyContext,omitempty"`
}

// PeriodMetadata is versioned context for a whole year. Year-range export
// filters apply to these; transaction metadata has no direct date and is
// never year-filtered.
type PeriodMetadata struct {
	Versioned[PeriodFields]

	Year int `json:"year"`
}
