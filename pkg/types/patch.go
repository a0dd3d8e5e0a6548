package types

// Patches are partial updates for versioned payloads. A nil field means
// "keep the current value"; a set field replaces it, including replacement
// with an empty value. Each Apply merges a patch over a snapshot and returns
// the next snapshot, leaving the input untouched.

// MetadataPatch is a partial update of MetadataFields.
type MetadataPatch struct {
	Reason    *string
	Context   *string
	Milestone *string
	PhotoURL  *string
}

// Apply merges the patch over f and returns the merged snapshot.
func (p MetadataPatch) Apply(f MetadataFields) MetadataFields {
	if p.Reason != nil {
		f.Reason = *p.Reason
	}
	if p.Context != nil {
		f.Context = *p.Context
	}
	if p.Milestone != nil {
		f.Milestone = *p.Milestone
	}
	if p.PhotoURL != nil {
		f.PhotoURL = *p.PhotoURL
	}
	return f
}

// PeriodPatch is a partial update of PeriodFields.
type PeriodPatch struct {
	Summary       *string
	MarketContext *string
	FamilyContext *string
}

func (p PeriodPatch) Apply(f PeriodFields) PeriodFields {
	if p.Summary != nil {
		f.Summary = *p.Summary
	}
	if p.MarketContext != nil {
		f.MarketContext = *p.MarketContext
	}
	if p.FamilyContext != nil {
		f.FamilyContext = *p.FamilyContext
	}
	return f
}

// ChapterPatch is a partial update of ChapterFields. Slices and gate fields
// are replaced whole when set; ClearUnlockGate removes both gates.
type ChapterPatch struct {
	Title           *string
	Content         *string
	MediaURLs       *[]string
	UnlockAge       *int
	UnlockDate      *Time
	LinkedYears     *[]int
	ClearUnlockGate bool
}

func (p ChapterPatch) Apply(f ChapterFields) ChapterFields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Content != nil {
		f.Content = *p.Content
	}
	if p.MediaURLs != nil {
		f.MediaURLs = append([]string(nil), (*p.MediaURLs)...)
	}
	if p.UnlockAge != nil {
		age := *p.UnlockAge
		f.UnlockAge = &age
	}
	if p.UnlockDate != nil {
		date := *p.UnlockDate
		f.UnlockDate = &date
	}
	if p.LinkedYears != nil {
		f.LinkedYears = append([]int(nil), (*p.LinkedYears)...)
	}
	if p.ClearUnlockGate {
		f.UnlockAge = nil
		f.UnlockDate = nil
	}
	return f
}

// NarrativePatch is a partial update of NarrativeFields.
type NarrativePatch struct {
	Title      *string
	Body       *string
	Highlights *[]string
}

func (p NarrativePatch) Apply(f NarrativeFields) NarrativeFields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Body != nil {
		f.Body = *p.Body
	}
	if p.Highlights != nil {
		f.Highlights = append([]string(nil), (*p.Highlights)...)
	}
	return f
}
