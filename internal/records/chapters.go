// This file implements the chapter store. Chapters are versioned narrative
// pieces with an age or date unlock gate; whether a chapter is locked is
// derived on every read and locked content is redacted at this boundary.
// Redaction is never persisted.
package records

import (
	"context"
	"fmt"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// ChapterStore is the record store for narrative chapters.
type ChapterStore struct {
	base
}

// ChapterReadOptions control redaction on reads. BirthDate is required to
// evaluate age gates; IncludeLockedContent skips redaction for callers that
// explicitly ask for locked content (the family's own editing view).
type ChapterReadOptions struct {
	BirthDate            types.Time
	IncludeLockedContent bool
}

// UnlockStatusFor derives a chapter's visibility at instant now. Rules:
// no gate means always unlocked; an unlock date gates until that date; an
// age gate locks while the child's age is below it.
func UnlockStatusFor(fields types.ChapterFields, birthDate types.Time, now time.Time) types.UnlockStatus {
	if fields.UnlockDate != nil {
		locked := now.Before(fields.UnlockDate.Time)
		status := types.UnlockStatus{IsLocked: locked}
		if locked {
			d := *fields.UnlockDate
			status.UnlocksOn = &d
		}
		return status
	}
	if fields.UnlockAge != nil {
		// Without a birth date the age cannot be computed; stay locked
		// rather than leak gated content.
		if birthDate.IsZero() {
			return types.UnlockStatus{IsLocked: true, YearsUntilUnlock: *fields.UnlockAge}
		}
		age := yearsBetween(birthDate.Time, now)
		locked := age < *fields.UnlockAge
		status := types.UnlockStatus{IsLocked: locked}
		if locked {
			status.YearsUntilUnlock = *fields.UnlockAge - age
			unlocks := types.NewTime(birthDate.AddDate(*fields.UnlockAge, 0, 0))
			status.UnlocksOn = &unlocks
		}
		return status
	}
	return types.UnlockStatus{}
}

// yearsBetween counts whole years from birth to now (calendar age).
func yearsBetween(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// redactLocked clears content and media from every version of a locked
// chapter's returned copy. The stored record is untouched.
func redactLocked(ch *types.Chapter) {
	for i := range ch.Versions {
		ch.Versions[i].Fields.Content = ""
		ch.Versions[i].Fields.MediaURLs = nil
	}
}

// Create persists a new chapter at version 1.
func (s *ChapterStore) Create(ctx context.Context, ownerID string, fields types.ChapterFields) (*types.Chapter, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	if fields.Title == "" {
		return nil, fmt.Errorf("%w: chapter title is required", types.ErrInvalidData)
	}
	if fields.UnlockAge != nil && *fields.UnlockAge < 0 {
		return nil, fmt.Errorf("%w: unlock age must not be negative", types.ErrInvalidData)
	}

	ch := &types.Chapter{Versioned: newVersioned(newRecordID(), fields)}
	if err := s.putJSON(ctx, types.CollectionChapters, ownerID, ch.ID, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Get retrieves one chapter, redacting it when locked and not explicitly
// requested with content.
func (s *ChapterStore) Get(ctx context.Context, ownerID, id string, opts ChapterReadOptions) (*types.Chapter, types.UnlockStatus, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, types.UnlockStatus{}, err
	}
	var ch types.Chapter
	if err := s.getJSON(ctx, types.CollectionChapters, ownerID, id, &ch); err != nil {
		return nil, types.UnlockStatus{}, err
	}
	status := UnlockStatusFor(ch.Current(), opts.BirthDate, time.Now())
	if status.IsLocked && !opts.IncludeLockedContent {
		redactLocked(&ch)
	}
	return &ch, status, nil
}

// List returns the owner's chapters, each redacted when locked unless the
// caller asked for locked content. Redaction happens on every read; it is
// derived state, never stored.
func (s *ChapterStore) List(ctx context.Context, ownerID string, opts ChapterReadOptions) ([]types.Chapter, error) {
	if err := s.authorize(ownerID); err != nil {
		return nil, err
	}
	chapters, err := listJSON[types.Chapter](ctx, s.base, types.CollectionChapters, ownerID, nil)
	if err != nil {
		return nil, err
	}
	if !opts.IncludeLockedContent {
		now := time.Now()
		for i := range chapters {
			if UnlockStatusFor(chapters[i].Current(), opts.BirthDate, now).IsLocked {
				redactLocked(&chapters[i])
			}
		}
	}
	return chapters, nil
}

// Update appends the next version with the patch merged over the current
// snapshot.
func (s *ChapterStore) Update(ctx context.Context, ownerID, id string, patch types.ChapterPatch, editNote string) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	var ch types.Chapter
	if err := s.getJSON(ctx, types.CollectionChapters, ownerID, id, &ch); err != nil {
		return err
	}
	appendVersion(&ch.Versioned, patch.Apply(ch.Current()), editNote)
	return s.putJSON(ctx, types.CollectionChapters, ownerID, id, &ch)
}

// Delete removes a chapter.
func (s *ChapterStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.authorize(ownerID); err != nil {
		return err
	}
	return s.deleteDoc(ctx, types.CollectionChapters, ownerID, id)
}
