package types

// Export layer names, used as keys of FullExportData.Checksums.
const (
	LayerFinancial = "financial"
	LayerMetadata  = "metadata"
	LayerEmotional = "emotional"
)

// ExportVersion is the bundle format version. Version 2 replaced the legacy
// rolling-hash checksums with SHA-256; version 2 bundles are not verifiable
// by version 1 readers.
const ExportVersion = "2"

// YearRange bounds an export to [From, To] inclusive.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// ExportOptions toggle what an export snapshot includes. The zero value
// exports latest versions only, excluding locked chapters.
type ExportOptions struct {
	// IncludeLockedChapters keeps chapters whose unlock gate has not
	// passed. Default: dropped with a warning.
	IncludeLockedChapters bool `json:"includeLockedChapters"`

	// PreserveVersionHistory keeps full version chains; when false each
	// versioned record is collapsed to its latest version only.
	PreserveVersionHistory bool `json:"preserveVersionHistory"`

	// YearRange, when non-nil, filters period metadata, narratives and
	// chapters (by linked years). Transaction metadata has no direct
	// date and is never filtered.
	YearRange *YearRange `json:"yearRange,omitempty"`
}

// FinancialLayer is the financial slice of an export snapshot.
type FinancialLayer struct {
	Transactions []FinancialTransaction `json:"transactions"`
	Portfolio    PortfolioSummary       `json:"portfolio"`
}

// MetadataLayer is the metadata slice of an export snapshot.
type MetadataLayer struct {
	TransactionMetadata []TransactionMetadata `json:"transactionMetadata"`
	PeriodMetadata      []PeriodMetadata      `json:"periodMetadata"`
}

// EmotionalLayer is the narrative slice of an export snapshot.
type EmotionalLayer struct {
	Chapters         []Chapter         `json:"chapters"`
	YearlyNarratives []YearlyNarrative `json:"yearlyNarratives"`
}

// FullExportData is the point-in-time aggregate written into a bundle.
// It is assembled for export and parsed on import, never persisted.
type FullExportData struct {
	ExportDate    Time              `json:"exportDate"`
	ExportVersion string            `json:"exportVersion"`
	AppVersion    string            `json:"appVersion"`
	ChildInfo     ChildInfo         `json:"childInfo"`
	Financial     FinancialLayer    `json:"financial"`
	Metadata      MetadataLayer     `json:"metadata"`
	Emotional     EmotionalLayer    `json:"emotional"`
	Checksums     map[string]string `json:"checksums"`
}

// ExportResult is the structured outcome of an export. Success is true iff
// no layer reported a hard error; warnings never affect it.
type ExportResult struct {
	Success    bool           `json:"success"`
	Filename   string         `json:"filename,omitempty"`
	SizeBytes  int64          `json:"sizeBytes"`
	ItemCounts map[string]int `json:"itemCounts"`
	Errors     []string       `json:"errors,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// VerifyReport is the outcome of parsing and verifying a bundle. Checksum
// mismatches are reported here as errors, never raised as failures; the
// caller decides what to do with a possibly corrupted bundle.
type VerifyReport struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}
