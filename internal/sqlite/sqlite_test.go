package sqlite_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/botornot/internal/sqlite"
	"github.com/myrjola/botornot/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	_, err = db.ReadWrite.ExecContext(ctx,
		"INSERT INTO attempts (operator_id, kind, attempts, timestamp, last_result) VALUES ('op', 'odd-one-out', 1, 0, 'fail')")
	require.NoError(t, err)

	var attempts int
	err = db.ReadOnly.QueryRowContext(ctx,
		"SELECT attempts FROM attempts WHERE operator_id = 'op' AND kind = 'odd-one-out'").Scan(&attempts)
	require.NoError(t, err)
	require.Equal(t, 1, attempts)

	_, err = db.ReadOnly.ExecContext(ctx, "DELETE FROM attempts")
	require.Error(t, err, "read-only pool must reject writes")

	_, err = db.ReadWrite.ExecContext(ctx,
		"INSERT INTO attempts (operator_id, kind, attempts, timestamp, last_result) VALUES ('op', 'best-fit', 1, 0, 'maybe')")
	require.Error(t, err, "last_result is constrained")
}

func TestNewDatabase_Reopen(t *testing.T) {
	ctx := context.Background()
	url := t.TempDir() + "/botornot.sqlite"
	logger := testhelpers.NewLogger(io.Discard)

	db, err := sqlite.NewDatabase(ctx, url, logger)
	require.NoError(t, err)
	_, err = db.ReadWrite.ExecContext(ctx,
		"INSERT INTO attempts (operator_id, kind, attempts, timestamp, last_result) VALUES ('op', 'odd-one-out', 2, 0, 'fail')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.NewDatabase(ctx, url, logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	var attempts int
	require.NoError(t, db.ReadOnly.QueryRowContext(ctx, "SELECT attempts FROM attempts").Scan(&attempts))
	require.Equal(t, 2, attempts)
}

func TestDatabase_CloseStopsOptimizer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	db, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
