package ledger

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/botornot/internal/contexthelpers"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

// SQLStore keeps records in the attempts table keyed by operator and kind.
type SQLStore struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
}

// NewSQLStore wraps the read-write and read-only pools of an SQLite database.
func NewSQLStore(readWrite, readOnly *sql.DB) *SQLStore {
	return &SQLStore{
		readWrite: sqlx.NewDb(readWrite, "sqlite3"),
		readOnly:  sqlx.NewDb(readOnly, "sqlite3"),
	}
}

func (s *SQLStore) Load(ctx context.Context, kind puzzle.Kind) (Record, error) {
	operatorID := contexthelpers.OperatorID(ctx)
	if operatorID == "" {
		return Record{}, ErrNoOperator
	}
	var record Record
	err := s.readOnly.GetContext(ctx, &record,
		`SELECT attempts, timestamp, last_result FROM attempts WHERE operator_id = ? AND kind = ?`,
		operatorID, string(kind))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Wrap(err, "select attempt record", slog.String("kind", string(kind)))
	}
	return record, nil
}

func (s *SQLStore) Save(ctx context.Context, kind puzzle.Kind, record Record) error {
	operatorID := contexthelpers.OperatorID(ctx)
	if operatorID == "" {
		return ErrNoOperator
	}
	_, err := s.readWrite.NamedExecContext(ctx, `INSERT INTO attempts (operator_id, kind, attempts, timestamp, last_result)
VALUES (:operator_id, :kind, :attempts, :timestamp, :last_result)
ON CONFLICT (operator_id, kind) DO UPDATE SET attempts    = excluded.attempts,
                                              timestamp   = excluded.timestamp,
                                              last_result = excluded.last_result`,
		map[string]any{
			"operator_id": operatorID,
			"kind":        string(kind),
			"attempts":    record.Attempts,
			"timestamp":   record.Timestamp,
			"last_result": string(record.LastResult),
		})
	if err != nil {
		return errors.Wrap(err, "upsert attempt record", slog.String("kind", string(kind)))
	}
	return nil
}

// Prune deletes records last written before the Unix millisecond cutoff. Such records would reset anyway.
func (s *SQLStore) Prune(ctx context.Context, before int64) (int64, error) {
	res, err := s.readWrite.ExecContext(ctx, `DELETE FROM attempts WHERE timestamp < ?`, before)
	if err != nil {
		return 0, errors.Wrap(err, "delete stale attempt records")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}
