package ledger_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/ledger"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/myrjola/botornot/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-process store with switchable failures.
type memoryStore struct {
	records   map[puzzle.Kind]ledger.Record
	failLoad  bool
	failSave  bool
	saveCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[puzzle.Kind]ledger.Record{}}
}

func (m *memoryStore) Load(_ context.Context, kind puzzle.Kind) (ledger.Record, error) {
	if m.failLoad {
		return ledger.Record{}, errors.New("load failed")
	}
	record, ok := m.records[kind]
	if !ok {
		return ledger.Record{}, ledger.ErrNotFound
	}
	return record, nil
}

func (m *memoryStore) Save(_ context.Context, kind puzzle.Kind, record ledger.Record) error {
	m.saveCalls++
	if m.failSave {
		return errors.New("save failed")
	}
	m.records[kind] = record
	return nil
}

var start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func TestLedger_RecordAttempt(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		want   int
	}{
		{name: "within window carries forward", offset: 10 * time.Second, want: 2},
		{name: "just inside window", offset: 29*time.Second + 999*time.Millisecond, want: 2},
		{name: "at window boundary resets", offset: 30 * time.Second, want: 1},
		{name: "after window resets", offset: 31 * time.Second, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l := ledger.New(newMemoryStore(), 30*time.Second, testhelpers.NewLogger(io.Discard))

			require.Equal(t, 1, l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start))
			assert.Equal(t, tt.want, l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start.Add(tt.offset)))
		})
	}
}

func TestLedger_RecordAttemptPersistsRecord(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	l := ledger.New(store, 0, testhelpers.NewLogger(io.Discard))
	assert.Equal(t, ledger.DefaultWindow, l.Window())

	l.RecordAttempt(ctx, puzzle.KindSort, false, start)
	l.RecordAttempt(ctx, puzzle.KindSort, true, start.Add(5*time.Second))

	assert.Equal(t, ledger.Record{
		Attempts:   2,
		Timestamp:  start.Add(5 * time.Second).UnixMilli(),
		LastResult: ledger.ResultSuccess,
	}, store.records[puzzle.KindSort])
}

func TestLedger_MonotonicWithinWindow(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(newMemoryStore(), 30*time.Second, testhelpers.NewLogger(io.Discard))
	now := start
	for want := 1; want <= 5; want++ {
		require.Equal(t, want, l.RecordAttempt(ctx, puzzle.KindBestFit, false, now))
		// Each attempt refreshes the timestamp so a chain of short gaps never resets.
		now = now.Add(20 * time.Second)
	}
}

func TestLedger_ScopedPerKind(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(newMemoryStore(), 30*time.Second, testhelpers.NewLogger(io.Discard))

	require.Equal(t, 1, l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start))
	require.Equal(t, 2, l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start.Add(time.Second)))
	assert.Equal(t, 1, l.RecordAttempt(ctx, puzzle.KindBestFit, false, start.Add(2*time.Second)))
	assert.Equal(t, 1, l.RecordAttempt(ctx, puzzle.KindSort, false, start.Add(3*time.Second)))
}

func TestLedger_FailsOpen(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	t.Run("load failure", func(t *testing.T) {
		store := newMemoryStore()
		l := ledger.New(store, 30*time.Second, logger)
		l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start)
		l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start.Add(time.Second))

		store.failLoad = true
		assert.Equal(t, 1, l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start.Add(2*time.Second)))
		assert.Equal(t, 2, store.records[puzzle.KindOddOneOut].Attempts, "record is left untouched")
	})

	t.Run("save failure", func(t *testing.T) {
		store := newMemoryStore()
		l := ledger.New(store, 30*time.Second, logger)
		l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start)

		store.failSave = true
		assert.Equal(t, 1, l.RecordAttempt(ctx, puzzle.KindOddOneOut, false, start.Add(time.Second)))
		assert.Equal(t, 2, store.saveCalls)
	})
}
