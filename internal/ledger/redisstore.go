package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/botornot/internal/contexthelpers"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps records as JSON values that expire with the attempt window.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore stores records in client. Keys expire after ttl, which should be at least the ledger window.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// RedisKey is the key holding the record of kind for operatorID.
func RedisKey(operatorID string, kind puzzle.Kind) string {
	return fmt.Sprintf("botornot:attempts:%s:%s", operatorID, kind)
}

func (s *RedisStore) Load(ctx context.Context, kind puzzle.Kind) (Record, error) {
	operatorID := contexthelpers.OperatorID(ctx)
	if operatorID == "" {
		return Record{}, ErrNoOperator
	}
	data, err := s.client.Get(ctx, RedisKey(operatorID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Wrap(err, "get attempt record", slog.String("kind", string(kind)))
	}
	var record Record
	if err = json.Unmarshal(data, &record); err != nil {
		return Record{}, errors.Wrap(err, "decode attempt record", slog.String("kind", string(kind)))
	}
	return record, nil
}

func (s *RedisStore) Save(ctx context.Context, kind puzzle.Kind, record Record) error {
	operatorID := contexthelpers.OperatorID(ctx)
	if operatorID == "" {
		return ErrNoOperator
	}
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encode attempt record")
	}
	if err = s.client.Set(ctx, RedisKey(operatorID, kind), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "set attempt record", slog.String("kind", string(kind)))
	}
	return nil
}
