// Package ledger counts challenge attempts per puzzle kind within an inactivity window.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

// DefaultWindow is the inactivity gap after which the attempt counter starts over.
const DefaultWindow = 30 * time.Second

// Result is the outcome of the last recorded attempt.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFail    Result = "fail"
)

// Record is the persisted state for one puzzle kind.
type Record struct {
	Attempts int `json:"attempts" db:"attempts"`
	// Timestamp is the time of the last write in Unix milliseconds.
	Timestamp  int64  `json:"timestamp" db:"timestamp"`
	LastResult Result `json:"lastResult" db:"last_result"`
}

var (
	// ErrNotFound is returned by stores that hold no record for the kind. It is not a failure.
	ErrNotFound = errors.NewSentinel("attempt record not found")
	// ErrNoOperator is returned by operator scoped stores when the context carries no operator id.
	ErrNoOperator = errors.NewSentinel("no operator in context")
)

// Store persists one record per puzzle kind. Implementations scope records to the operator found in ctx.
type Store interface {
	Load(ctx context.Context, kind puzzle.Kind) (Record, error)
	Save(ctx context.Context, kind puzzle.Kind, record Record) error
}

// Ledger records attempts on top of a [Store]. Store failures never reach the caller.
type Ledger struct {
	store  Store
	window time.Duration
	logger *slog.Logger
}

// New creates a ledger. A non-positive window falls back to [DefaultWindow].
func New(store Store, window time.Duration, logger *slog.Logger) *Ledger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Ledger{store: store, window: window, logger: logger}
}

// Window returns the inactivity window.
func (l *Ledger) Window() time.Duration {
	return l.window
}

// RecordAttempt stores a completed attempt of kind made at now and returns its attempt number.
//
// The previous count carries forward only when the last attempt happened less than the window ago. When the
// store cannot be read or written the attempt number is 1.
func (l *Ledger) RecordAttempt(ctx context.Context, kind puzzle.Kind, succeeded bool, now time.Time) int {
	base := 0
	record, err := l.store.Load(ctx, kind)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		l.failOpen(ctx, kind, errors.Wrap(err, "load attempt record"))
		return 1
	case now.Sub(time.UnixMilli(record.Timestamp)) < l.window:
		base = record.Attempts
	}

	attempt := base + 1
	result := ResultFail
	if succeeded {
		result = ResultSuccess
	}
	next := Record{Attempts: attempt, Timestamp: now.UnixMilli(), LastResult: result}
	if err = l.store.Save(ctx, kind, next); err != nil {
		l.failOpen(ctx, kind, errors.Wrap(err, "save attempt record"))
		return 1
	}

	l.logger.LogAttrs(ctx, slog.LevelDebug, "attempt recorded",
		slog.String("kind", string(kind)), slog.Int("attempt", attempt), slog.String("result", string(result)))
	return attempt
}

func (l *Ledger) failOpen(ctx context.Context, kind puzzle.Kind, err error) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, "attempt ledger unavailable, counting as first attempt",
		slog.String("kind", string(kind)), errors.SlogError(err))
}
