// Package challenge runs one operator interaction through the catalog, sampler, evaluator, ledger and router.
package challenge

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/ledger"
	"github.com/myrjola/botornot/internal/outcome"
	"github.com/myrjola/botornot/internal/puzzle"
)

// Service wires the puzzle subsystem together. It holds no per-operator state.
type Service struct {
	source  catalog.Source
	sampler *puzzle.Sampler
	ledger  *ledger.Ledger
	now     func() time.Time
	logger  *slog.Logger
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock replaces time.Now, which stamps attempts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	source catalog.Source,
	sampler *puzzle.Sampler,
	l *ledger.Ledger,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{source: source, sampler: sampler, ledger: l, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is what the caller needs after a placement.
type Result struct {
	puzzle.Verdict
	// Resolved is true only for the placement that resolved the instance.
	Resolved  bool
	Succeeded bool
	Attempt   int
	Outcome   outcome.Outcome
	// Destination is the path to redirect to once Resolved.
	Destination string
}

// Start loads the catalog and builds a fresh instance of kind.
//
// The error wraps [catalog.ErrUnavailable] when the catalog cannot be loaded and [catalog.ErrConfiguration]
// when no instance can be built from it.
func (s *Service) Start(ctx context.Context, kind puzzle.Kind) (*puzzle.Instance, error) {
	c, err := s.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog", slog.String("kind", string(kind)))
	}
	inst, err := s.sampler.BuildInstance(c, kind)
	if err != nil {
		return nil, errors.Wrap(err, "build instance")
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "instance started",
		slog.String("kind", string(kind)), slog.String("instance_id", inst.ID))
	return inst, nil
}

// Place evaluates p against inst. When the placement resolves the instance the attempt is recorded in the
// ledger and routed to an outcome.
func (s *Service) Place(ctx context.Context, inst *puzzle.Instance, p puzzle.Placement) Result {
	verdict := puzzle.Evaluate(inst, p)
	result := Result{Verdict: verdict}
	if verdict.Ignored {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "placement ignored",
			slog.String("kind", string(inst.Kind)), slog.String("instance_id", inst.ID))
		return result
	}
	if !verdict.Terminal {
		if inst.Kind == puzzle.KindSort {
			s.sampler.Reshuffle(inst)
		}
		return result
	}

	result.Resolved = true
	result.Succeeded = inst.Succeeded()
	result.Attempt = s.ledger.RecordAttempt(ctx, inst.Kind, result.Succeeded, s.now())
	result.Outcome = outcome.Route(result.Succeeded, result.Attempt)
	result.Destination = outcome.Destination(result.Outcome, inst.Kind)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "challenge resolved",
		slog.String("kind", string(inst.Kind)),
		slog.Bool("succeeded", result.Succeeded),
		slog.Int("mistakes", inst.Mistakes),
		slog.Int("attempt", result.Attempt),
		slog.String("outcome", string(result.Outcome)))
	return result
}
