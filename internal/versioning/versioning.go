// Package versioning implements the pure version-chain engine: creating,
// inspecting, pruning and repairing chains of full-snapshot versions. It
// performs no I/O; the record stores drive it.
package versioning

import (
	"sort"

	"github.com/semilla-app/semilla/pkg/types"
)

// New creates the next version in a chain: numbered current+1, stamped now,
// carrying the full merged snapshot.
func New[T any](current int, fields T, editNote string) types.Version[T] {
	return types.Version[T]{
		Number:    current + 1,
		Timestamp: types.Now(),
		Fields:    fields,
		EditNote:  editNote,
	}
}

// Latest returns the version with the highest number, or nil for an empty
// chain. The input is not assumed sorted.
func Latest[T any](versions []types.Version[T]) *types.Version[T] {
	var latest *types.Version[T]
	for i := range versions {
		if latest == nil || versions[i].Number > latest.Number {
			latest = &versions[i]
		}
	}
	return latest
}

// Prune keeps the max highest-numbered versions, returned in ascending
// order. Used for history-stripped exports; max < 1 keeps one version.
func Prune[T any](versions []types.Version[T], max int) []types.Version[T] {
	if max < 1 {
		max = 1
	}
	if len(versions) <= max {
		return sortedByNumber(versions)
	}
	sorted := sortedByNumber(versions)
	return sorted[len(sorted)-max:]
}

// RepairResult is the outcome of Repair.
type RepairResult[T any] struct {
	Versions       []types.Version[T]
	CurrentVersion int
	WasRepaired    bool
}

// Repair restores the chain invariant on a damaged chain: structurally
// invalid entries (non-positive number, zero timestamp) are dropped, the
// remainder is renumbered contiguously from 1 in chronological order, and
// the current version is reset to the new maximum. WasRepaired reports
// whether anything had to change.
func Repair[T any](versions []types.Version[T], current int) RepairResult[T] {
	kept := make([]types.Version[T], 0, len(versions))
	dropped := 0
	for _, v := range versions {
		if v.Number < 1 || v.Timestamp.IsZero() {
			dropped++
			continue
		}
		kept = append(kept, v)
	}

	// Chronological order; version number breaks timestamp ties.
	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].Timestamp.Equal(kept[j].Timestamp) {
			return kept[i].Timestamp.Before(kept[j].Timestamp.Time)
		}
		return kept[i].Number < kept[j].Number
	})

	renumbered := false
	for i := range kept {
		if kept[i].Number != i+1 {
			kept[i].Number = i + 1
			renumbered = true
		}
	}

	result := RepairResult[T]{
		Versions:       kept,
		CurrentVersion: len(kept),
	}
	result.WasRepaired = dropped > 0 || renumbered || current != result.CurrentVersion
	return result
}

// Valid reports whether a chain satisfies the invariant: ascending numbers
// contiguous from 1, with current equal to the last number.
func Valid[T any](versions []types.Version[T], current int) bool {
	for i, v := range versions {
		if v.Number != i+1 {
			return false
		}
	}
	return current == len(versions)
}

func sortedByNumber[T any](versions []types.Version[T]) []types.Version[T] {
	out := append([]types.Version[T](nil), versions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
