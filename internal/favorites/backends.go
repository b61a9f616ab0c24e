package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Memory keeps favorites in process. It is what the store falls back to
// when no database is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Load(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	raw := m.data[key]
	m.mu.RUnlock()
	return decode(raw)
}

func (m *Memory) Save(_ context.Context, key string, ids []string) error {
	raw, err := encode(ids)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// SQLite stores one row per visitor in the favorites table.
type SQLite struct {
	db *sql.DB
}

const favoritesSchema = `
CREATE TABLE IF NOT EXISTS favorites (
	visitor_id TEXT PRIMARY KEY,
	ids TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL
)`

// NewSQLite creates the favorites table if needed.
func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, errors.New("favorites: nil database")
	}
	if _, err := db.ExecContext(ctx, favoritesSchema); err != nil {
		return nil, fmt.Errorf("create favorites table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context, key string) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT ids FROM favorites WHERE visitor_id = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (s *SQLite) Save(ctx context.Context, key string, ids []string) error {
	raw, err := encode(ids)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO favorites (visitor_id, ids, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET ids = excluded.ids, updated_at = excluded.updated_at
	`, key, raw, time.Now().UTC().Format(time.DateTime))
	return err
}

// Redis stores each visitor's list as a JSON string under Prefix+visitor.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// DefaultRedisPrefix namespaces favorites keys.
const DefaultRedisPrefix = "portfolio:favorites:"

// NewRedis wraps client. Keys expire ttl after the last change; zero
// keeps them forever.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: DefaultRedisPrefix, ttl: ttl}
}

// OpenRedis connects using a redis:// URL and checks the server is reachable.
func OpenRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, ttl), nil
}

// Key is the redis key holding visitor's favorites.
func (r *Redis) Key(visitor string) string { return r.prefix + visitor }

func (r *Redis) Load(ctx context.Context, key string) ([]string, error) {
	raw, err := r.client.Get(ctx, r.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (r *Redis) Save(ctx context.Context, key string, ids []string) error {
	raw, err := encode(ids)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.Key(key), raw, r.ttl).Err()
}

func (r *Redis) Close() error { return r.client.Close() }
