package types

// ChapterFields is the versioned payload of a Chapter: a narrative piece of
// the child's investment story, optionally gated until an age or date.
type ChapterFields struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`

	// MediaURLs reference photos or recordings; they are never embedded.
	MediaURLs []string `json:"mediaUrls,omitempty"`

	// UnlockAge gates the chapter until the child reaches this age.
	// Ignored when UnlockDate is set.
	UnlockAge *int `json:"unlockAge,omitempty"`

	// UnlockDate gates the chapter until this date. Takes precedence
	// over UnlockAge.
	UnlockDate *Time `json:"unlockDate,omitempty"`

	// LinkedYears are the calendar years this chapter talks about; used
	// by year-range export filters.
	LinkedYears []int `json:"linkedYears,omitempty"`
}

// Chapter is a versioned narrative chapter with a read-time unlock gate.
// Whether the chapter is locked is always derived when read, never stored.
type Chapter struct {
	Versioned[ChapterFields]
}

// UnlockStatus is the derived visibility of a chapter at a point in time.
type UnlockStatus struct {
	IsLocked bool `json:"isLocked"`

	// YearsUntilUnlock is the whole years remaining for age-gated
	// chapters; zero when unlocked or date-gated.
	YearsUntilUnlock int `json:"yearsUntilUnlock"`

	// UnlocksOn is the concrete unlock date when one can be computed.
	UnlocksOn *Time `json:"unlocksOn,omitempty"`
}

// NarrativeFields is the versioned payload of a YearlyNarrative: the
// family's written summary of one year.
type NarrativeFields struct {
	Title      string   `json:"title,omitempty"`
	Body       string   `json:"body"`
	Highlights []string `json:"highlights,omitempty"`
}

// YearlyNarrative is the versioned narrative for one calendar year. At most
// one exists per (owner, year); the store enforces this with a deterministic
// record ID derived from the year.
type YearlyNarrative struct {
	Versioned[NarrativeFields]

	Year int `json:"year"`
}

// ChildInfo describes the child the account belongs to. Carried in exports
// so a bundle is meaningful on its own.
type ChildInfo struct {
	Name      string `json:"name"`
	BirthDate Time   `json:"birthDate"`
}
