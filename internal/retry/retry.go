// Package retry runs fallible remote calls with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eventtracks/internal/domain"
)

// Policy bounds a retry loop. The first wait is InitialDelay and each later
// wait doubles it. MaxRetries counts retries, not attempts.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type settings struct {
	sleep  Sleeper
	logger *slog.Logger
	op     string
}

// Option configures a single Do call.
type Option func(*settings)

// WithSleeper overrides how waits are performed (useful for tests).
func WithSleeper(s Sleeper) Option {
	return func(c *settings) {
		if s != nil {
			c.sleep = s
		}
	}
}

// WithLogger reports each retried failure at warn level under the operation name op.
func WithLogger(logger *slog.Logger, op string) Option {
	return func(c *settings) {
		c.logger = logger
		c.op = op
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do invokes op and retries it while the failure is transient and retries
// remain. The last failure is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), opts ...Option) (T, error) {
	s := settings{sleep: sleepContext}
	for _, opt := range opts {
		opt(&s)
	}
	delay := p.InitialDelay
	remaining := p.MaxRetries
	for {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		// A context error inside err may come from a per-attempt timeout; only
		// the caller's own context ends the loop.
		if remaining <= 0 || ctx.Err() != nil || IsPermanent(err) {
			return v, err
		}
		if s.logger != nil {
			s.logger.Warn("retrying after failure", "op", s.op, "retries_left", remaining, "delay_ms", delay.Milliseconds(), "err", err)
		}
		if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
			return v, err
		}
		delay *= 2
		remaining--
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err must not be retried: explicitly marked
// errors, client-side validation, malformed responses, failed image
// conversion, and HTTP statuses other than 5xx/408/429. Context errors are not
// permanent by themselves; Do stops on the caller's context instead.
func IsPermanent(err error) bool {
	var pe *permanentError
	if errors.As(err, &pe) {
		return true
	}
	if errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidResponseShape) ||
		errors.Is(err, domain.ErrImageConversion) {
		return true
	}
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		return !httpErr.Temporary()
	}
	return false
}
