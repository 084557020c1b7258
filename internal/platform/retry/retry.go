package retry

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// Policy retries an operation a fixed number of times with a fixed pause
// between attempts. Only errors marked transient are retried.
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultPolicy matches the storage adapters' historical behavior.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Backoff: 2 * time.Second}
}

// NormalizePolicy fills zero and negative fields from the default.
func NormalizePolicy(p Policy) Policy {
	def := DefaultPolicy()
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.Backoff <= 0 {
		p.Backoff = def.Backoff
	}
	return p
}

var errTransient = crerr.New("transient failure")

// MarkTransient tags an error as retryable by Do.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(err, errTransient)
}

// IsTransient reports whether the error carries the transient mark.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

// Do runs fn, retrying transient failures until attempts run out or the
// context ends. The last error is returned as-is.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p = NormalizePolicy(p)
	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(p.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		err = fn(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}
