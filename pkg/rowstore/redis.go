package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

type redisTable struct {
	Header []string `json:"header"`
	Rows   []Row    `json:"rows"`
}

// RedisStore keeps each table as a single JSON document under prefix:table.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimRight(prefix, ":")
	if prefix == "" {
		prefix = "rowstore"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Read implements Store.
func (s *RedisStore) Read(ctx context.Context, table string) ([]Row, error) {
	if table == "" {
		return nil, ErrInvalidTable
	}
	raw, err := s.client.Get(ctx, s.key(table)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Row{}, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", table, err)
	}
	var doc redisTable
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode table %s: %w", table, err)
	}
	if doc.Rows == nil {
		return []Row{}, nil
	}
	return doc.Rows, nil
}

// Write implements Store.
func (s *RedisStore) Write(ctx context.Context, table string, header []string, rows []Row) error {
	if table == "" {
		return ErrInvalidTable
	}
	payload, err := json.Marshal(redisTable{Header: orderedHeader(header, rows), Rows: rows})
	if err != nil {
		return fmt.Errorf("encode table %s: %w", table, err)
	}
	if err := s.client.Set(ctx, s.key(table), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", table, err)
	}
	return nil
}

func (s *RedisStore) key(table string) string {
	return s.prefix + ":" + strings.ToLower(strings.ReplaceAll(table, " ", "_"))
}
