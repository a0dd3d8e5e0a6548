// This file implements the yearly narrative store. At most one narrative
// exists per (owner, year); the deterministic record ID derived from the
// year turns create-or-update into a single conditional write instead of a
// racy query-then-branch.
package records

import (
	"context"
	"fmt"

	"github.com/semilla-app/semilla/pkg/types"
)

// NarrativeStore is the record store for yearly narratives.
type NarrativeStore struct {
	base
}

// NarrativeIDFor derives the deterministic record ID for a year.
func NarrativeIDFor(year int) string {
	return fmt.Sprintf("ny-%d", year)
}

// Save upserts the narrative for a year: versioned update when the year
// already has one, creation at version 1 otherwise. One logical write.
func (s *NarrativeStore) Save(ctx context.Context, ownerID string, year int, fields types.NarrativeFields, editNote string) (*types.YearlyNarrative, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	if year < 1900 || year > 2200 {
		return nil, fmt.Errorf("%w: implausible year %d", types.ErrInvalidData, year)
	}
	if fields.Body == "" {
		return nil, fmt.Errorf("%w: narrative body is required", types.ErrInvalidData)
	}

	id := NarrativeIDFor(year)
	var narrative types.YearlyNarrative
	err := s.getJSON(ctx, types.CollectionNarratives, ownerID, id, &narrative)
	switch {
	case err == nil:
		appendVersion(&narrative.Versioned, fields, editNote)
	case isNotFound(err):
		narrative = types.YearlyNarrative{
			Versioned: newVersioned(id, fields),
			Year:      year,
		}
	default:
		return nil, err
	}

	if err := s.putJSON(ctx, types.CollectionNarratives, ownerID, id, &narrative); err != nil {
		return nil, err
	}
	return &narrative, nil
}

// Get retrieves the narrative for a year.
func (s *NarrativeStore) Get(ctx context.Context, ownerID string, year int) (*types.YearlyNarrative, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	var narrative types.YearlyNarrative
	if err := s.getJSON(ctx, types.CollectionNarratives, ownerID, NarrativeIDFor(year), &narrative); err != nil {
		return nil, err
	}
	return &narrative, nil
}

// List returns all of the owner's yearly narratives.
func (s *NarrativeStore) List(ctx context.Context, ownerID string) ([]types.YearlyNarrative, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	return listJSON[types.YearlyNarrative](ctx, s.base, types.CollectionNarratives, ownerID, nil)
}

// Delete removes the narrative for a year.
func (s *NarrativeStore) Delete(ctx context.Context, ownerID string, year int) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	return s.deleteDoc(ctx, types.CollectionNarratives, ownerID, NarrativeIDFor(year))
}
