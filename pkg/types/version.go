package types

// Version is one immutable historical state of a versioned entity. It is a
// complete snapshot of the entity's mutable fields, not a diff: restoring or
// exporting any version never requires replaying earlier ones.
type Version[T any] struct {
	// Number is the 1-based position in the chain. Chains are ascending
	// and contiguous from 1.
	Number int `json:"number"`

	// Timestamp records when this version was created.
	Timestamp Time `json:"timestamp"`

	// Fields is the full field snapshot at this version.
	Fields T `json:"fields"`

	// EditNote optionally explains why the edit was made.
	EditNote string `json:"editNote,omitempty"`
}

// Versioned is the common shape of every versioned entity. CurrentVersion
// always equals the highest version number in Versions; past versions are
// never mutated.
type Versioned[T any] struct {
	ID             string       `json:"id"`
	CurrentVersion int          `json:"currentVersion"`
	Versions       []Version[T] `json:"versions"`
	CreatedAt      Time         `json:"createdAt"`
	UpdatedAt      Time         `json:"updatedAt"`
}

// Current returns the snapshot of the latest version. It assumes the chain
// invariant holds (Versions ascending, CurrentVersion == last number); use
// versioning.Latest when the chain may be damaged.
func (v Versioned[T]) Current() T {
	var zero T
	if len(v.Versions) == 0 {
		return zero
	}
	return v.Versions[len(v.Versions)-1].Fields
}
