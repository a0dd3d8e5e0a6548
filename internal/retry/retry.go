// Package retry implements the shared backoff policy used by every store
// and external call: exponential delay with jitter, applied only to errors
// classified as transient.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// Policy describes one retry budget. The delay before attempt k (0-indexed)
// is min(MaxDelay, BaseDelay * Factor^k * jitter) with jitter uniform in
// [0.75, 1.25]; MaxDelay is a hard ceiling.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Factor     float64
}

// Default policies. Persistence calls get the larger budget; read-only
// external calls the smaller one. Each logical operation gets its own
// independent budget.
var (
	Persist = Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 8 * time.Second, Factor: 2}
	Read    = Policy{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Factor: 2}
)

// sleep waits for d or until the context is done. Overridable in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs op, retrying transient failures up to MaxRetries times. The final
// error is wrapped in types.ErrTransient so callers can classify it without
// knowing the backend. Non-transient errors propagate immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !Transient(lastErr) {
			return lastErr
		}
		if attempt >= p.MaxRetries {
			break
		}
		if err := sleep(ctx, p.delay(attempt)); err != nil {
			return err
		}
	}
	if errors.Is(lastErr, types.ErrTransient) {
		return lastErr
	}
	return errors.Join(types.ErrTransient, lastErr)
}

// delay computes the jittered backoff for attempt k.
func (p Policy) delay(k int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 0; i < k; i++ {
		d *= p.Factor
	}
	d *= 0.75 + rand.Float64()*0.5
	if max := float64(p.MaxDelay); d > max {
		d = max
	}
	return time.Duration(d)
}

// transientMarkers are substrings of backend error messages that indicate a
// retryable condition: SQLite contention and the remote-store status codes.
var transientMarkers = []string{
	"database is locked",
	"database table is locked",
	"busy",
	"unavailable",
	"resource_exhausted",
	"deadline_exceeded",
	"aborted",
	"internal",
	"cancelled",
}

// Transient reports whether err is worth retrying. Validation, not-found
// and permission errors are never transient.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrPermissionDenied),
		errors.Is(err, types.ErrStoreDetached),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	if errors.Is(err, types.ErrTransient) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
