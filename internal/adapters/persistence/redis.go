package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
)

// KV is the subset of the redis client the store uses.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the record in redis.
type RedisStore struct {
	kv     KV
	key    string
	ttl    time.Duration
	closer func() error
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int, session string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s := NewRedisStore(client, session, 0)
	s.closer = client.Close
	return s, nil
}

// NewRedisStore uses kv. A positive ttl expires the record after that long
// without saves.
func NewRedisStore(kv KV, session string, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, key: Key(session), ttl: ttl}
}

// Load returns the stored record or interaction.ErrNotFound.
func (s *RedisStore) Load(ctx context.Context) (*interaction.Record, error) {
	data, err := s.kv.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, interaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return interaction.Unmarshal(data)
}

// Save replaces the stored record.
func (s *RedisStore) Save(ctx context.Context, rec *interaction.Record) error {
	data, err := interaction.Marshal(rec)
	if err != nil {
		return err
	}
	return observed(BackendRedis, func() error {
		if err := s.kv.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
			return fmt.Errorf("set record: %w", err)
		}
		return nil
	})
}

// Close closes the connection when this store dialed it.
func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
