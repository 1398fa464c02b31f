package iocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"github.com/redis/go-redis/v9"
)

// redisPrefix namespaces every preference key in a shared Redis.
const redisPrefix = "callerid:pref:"

// redisTimeout bounds each round trip; the KVStore contract carries no context.
const redisTimeout = 5 * time.Second

// RedisStore keeps each key as a hash with value, version and ts fields.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ contract.KVStore = &RedisStore{} // Compile-time check

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: redisPrefix}, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Get implements the KVStore interface.
func (s *RedisStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("get %s: %w", key, err)
	}
	value, ok := fields["value"]
	if !ok {
		return nil, 0, 0, fmt.Errorf("%w: %s", contract.ErrNotFound, key)
	}
	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("get %s: bad version: %w", key, err)
	}
	ts, err := strconv.ParseInt(fields["ts"], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("get %s: bad timestamp: %w", key, err)
	}
	return []byte(value), version, ts, nil
}

// Set implements the KVStore interface.
func (s *RedisStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.client.HSet(ctx, s.key(key), "value", value, "version", version, "ts", timestamp).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete implements the KVStore interface.
func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// keys lists every stored key including the prefix.
func (s *RedisStore) keys(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if next == 0 {
			return out, nil
		}
		cursor = next
	}
}

// GetStatus implements the KVStore interface.
func (s *RedisStore) GetStatus() (schema.PreferenceStatus, error) {
	status := schema.PreferenceStatus{Backend: string(schema.RedisBackend), Connected: true}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := s.keys(ctx)
	if err != nil {
		return status, fmt.Errorf("scan preferences: %w", err)
	}
	status.TotalEntries = len(keys)

	var last, oldest int64
	for i, k := range keys {
		fields, err := s.client.HMGet(ctx, k, "value", "ts").Result()
		if err != nil {
			return status, fmt.Errorf("read %s: %w", k, err)
		}
		if v, ok := fields[0].(string); ok {
			status.TableSizeBytes += int64(len(v))
		}
		ts, _ := strconv.ParseInt(fmt.Sprint(fields[1]), 10, 64)
		if i == 0 || ts > last {
			last = ts
		}
		if i == 0 || ts < oldest {
			oldest = ts
		}
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(last, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}
	return status, nil
}

// Clear deletes every preference key.
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := s.keys(ctx)
	if err != nil {
		return fmt.Errorf("scan preferences: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	err := s.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
