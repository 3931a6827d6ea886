package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "conversation:"

// RedisStore persists sender histories in Redis so they survive process
// restarts. It implements the same trim policy as MemoryStore; the
// read-modify-write is not atomic, which matches the best-effort contract of
// Store.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func historyKey(sender string) string {
	return historyKeyPrefix + sender
}

// Append implements Store.
func (s *RedisStore) Append(ctx context.Context, sender string, role Role, text string) error {
	history, err := s.Recent(ctx, sender)
	if err != nil {
		return err
	}
	history = trimHistory(append(history, Entry{Role: role, Text: text}))

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("conversation: marshal history: %w", err)
	}
	if err := s.rdb.Set(ctx, historyKey(sender), data, 0).Err(); err != nil {
		return fmt.Errorf("conversation: save history: %w", err)
	}
	return nil
}

// Recent implements Store.
func (s *RedisStore) Recent(ctx context.Context, sender string) ([]Entry, error) {
	data, err := s.rdb.Get(ctx, historyKey(sender)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("conversation: load history: %w", err)
	}
	var history []Entry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("conversation: unmarshal history: %w", err)
	}
	return history, nil
}
