// Package services holds the screen-scoped state behind each view: the
// collection a screen shows, the remote calls that refresh or mutate it, and the
// local reconciliation applied once a mutation is confirmed.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventtracks/internal/domain"
	"eventtracks/internal/normalize"
	"eventtracks/internal/retry"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 60 * time.Second

// Deps wires a state holder to its collaborators.
type Deps struct {
	API    domain.EventsAPI
	Images domain.ImageEncoder
	// Normalizer defaults to one logging through Logger.
	Normalizer *normalize.Normalizer
	Retry      retry.Policy
	// Sleeper overrides retry waits; nil waits for real.
	Sleeper retry.Sleeper
	// Timeout bounds one whole operation, retries included.
	Timeout time.Duration
	Logger  *slog.Logger
}

// guard admits one operation at a time.
type guard struct {
	mu sync.Mutex
}

func (g *guard) run(fn func() error) error {
	if !g.mu.TryLock() {
		return domain.ErrBusy
	}
	defer g.mu.Unlock()
	return fn()
}

// screen is the plumbing shared by all state holders.
type screen struct {
	api        domain.EventsAPI
	images     domain.ImageEncoder
	normalizer *normalize.Normalizer
	policy     retry.Policy
	sleeper    retry.Sleeper
	timeout    time.Duration
	logger     *slog.Logger
	inFlight   guard
}

func (s *screen) init(d Deps) {
	s.api = d.API
	s.images = d.Images
	s.policy = d.Retry
	s.sleeper = d.Sleeper
	s.timeout = d.Timeout
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	s.logger = d.Logger
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.normalizer = d.Normalizer
	if s.normalizer == nil {
		s.normalizer = normalize.New(s.logger)
	}
}

// exclusive runs fn under the in-flight guard with the operation timeout.
func (s *screen) exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.inFlight.run(func() error {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return fn(ctx)
	})
}

// fetch performs a single read. Reads are not retried.
func (s *screen) fetch(ctx context.Context, op string, call func(context.Context) domain.Result) (any, error) {
	data, err := call(ctx).Unwrap()
	if err != nil {
		s.logger.Warn("request failed", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// mutate performs a write through the retry policy.
func (s *screen) mutate(ctx context.Context, op string, call func(context.Context) domain.Result) (any, error) {
	data, err := retry.Do(ctx, s.policy, func(ctx context.Context) (any, error) {
		return call(ctx).Unwrap()
	}, retry.WithSleeper(s.sleeper), retry.WithLogger(s.logger, op))
	if err != nil {
		s.logger.Warn("mutation failed", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// create performs a non-idempotent write once.
func (s *screen) create(ctx context.Context, op string, call func(context.Context) domain.Result) (any, error) {
	return s.fetch(ctx, op, call)
}

// encodeImages converts every local ref in place, concurrently. Any failure
// aborts the whole submission.
func (s *screen) encodeImages(ctx context.Context, refs ...*domain.ImageRef) error {
	local := make([]*domain.ImageRef, 0, len(refs))
	for _, ref := range refs {
		if ref != nil && ref.IsLocal() {
			local = append(local, ref)
		}
	}
	if len(local) == 0 {
		return nil
	}
	if s.images == nil {
		return fmt.Errorf("%w: no image encoder configured", domain.ErrImageConversion)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range local {
		g.Go(func() error {
			encoded, err := s.images.Encode(gctx, *ref)
			if err != nil {
				if !errors.Is(err, domain.ErrImageConversion) {
					err = fmt.Errorf("%w: %w", domain.ErrImageConversion, err)
				}
				return err
			}
			*ref = encoded
			return nil
		})
	}
	return g.Wait()
}
