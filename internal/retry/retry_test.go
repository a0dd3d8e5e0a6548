package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// stubSleep replaces the package sleep with one that records requested
// delays and returns immediately.
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })
	return &delays
}

func TestDoSucceedsFirstTry(t *testing.T) {
	delays := stubSleep(t)
	calls := 0
	err := Persist.Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || len(*delays) != 0 {
		t.Fatalf("expected 1 call and no sleeps, got %d calls %d sleeps", calls, len(*delays))
	}
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	delays := stubSleep(t)
	calls := 0
	err := Persist.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(*delays) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(*delays))
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	delays := stubSleep(t)
	calls := 0
	err := Read.Do(context.Background(), func() error {
		calls++
		return errors.New("unavailable")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, types.ErrTransient) {
		t.Fatalf("final error should wrap ErrTransient, got %v", err)
	}
	// Initial attempt plus MaxRetries.
	if calls != Read.MaxRetries+1 {
		t.Fatalf("expected %d calls, got %d", Read.MaxRetries+1, calls)
	}
	if len(*delays) != Read.MaxRetries {
		t.Fatalf("expected %d sleeps, got %d", Read.MaxRetries, len(*delays))
	}
}

func TestDoNonTransientPropagatesImmediately(t *testing.T) {
	delays := stubSleep(t)
	calls := 0
	sentinel := fmt.Errorf("wrapped: %w", types.ErrNotFound)
	err := Persist.Do(context.Background(), func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, types.ErrTransient) {
		t.Fatal("non-transient error must not be wrapped as transient")
	}
	if calls != 1 || len(*delays) != 0 {
		t.Fatalf("expected no retries, got %d calls", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	orig := sleep
	sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	t.Cleanup(func() { sleep = orig })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Persist.Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("busy")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDelayBounds(t *testing.T) {
	p := Policy{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: 8 * time.Second, Factor: 2}

	for attempt := 0; attempt < 6; attempt++ {
		raw := float64(time.Second)
		for i := 0; i < attempt; i++ {
			raw *= 2
		}
		lo := time.Duration(raw * 0.75)
		hi := time.Duration(raw * 1.25)
		// MaxDelay is a hard ceiling; jitter never pushes past it.
		if lo > p.MaxDelay {
			lo = p.MaxDelay
		}
		if hi > p.MaxDelay {
			hi = p.MaxDelay
		}

		for i := 0; i < 50; i++ {
			d := p.delay(attempt)
			if d < lo || d > hi {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, d, lo, hi)
			}
			if d > p.MaxDelay {
				t.Fatalf("attempt %d: delay %v exceeds cap %v", attempt, d, p.MaxDelay)
			}
		}
	}
}

func TestTransientClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", types.ErrNotFound, false},
		{"invalid data", fmt.Errorf("bad: %w", types.ErrInvalidData), false},
		{"permission denied", types.ErrPermissionDenied, false},
		{"detached", types.ErrStoreDetached, false},
		{"context canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"tagged transient", fmt.Errorf("op: %w", types.ErrTransient), true},
		{"sqlite locked", errors.New("database is locked"), true},
		{"sqlite table locked", errors.New("database table is locked (5)"), true},
		{"remote unavailable", errors.New("rpc error: code = Unavailable desc = unavailable"), true},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: quota"), true},
		{"aborted", errors.New("ABORTED: contention"), true},
		{"plain validation", errors.New("title is required"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Transient(tc.err); got != tc.want {
				t.Fatalf("Transient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
