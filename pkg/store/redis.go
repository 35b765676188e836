package store

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// RedisConfig configures [RedisStore].
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RedisStore keeps values as Redis strings.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	err := RetryWithBackoff(ctx, func() error {
		return retryableRedis(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

// Get retrieves a value.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		val   string
		found bool
	)
	err := RetryWithBackoff(ctx, func() error {
		v, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return retryableRedis(err)
		}
		val, found = v, true
		return nil
	})
	if err != nil {
		return "", false, storeErr(err, "get", key)
	}
	return val, found, nil
}

// Set stores a value without expiration.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	err := RetryWithBackoff(ctx, func() error {
		return retryableRedis(s.client.Set(ctx, key, value, 0).Err())
	})
	return storeErr(err, "set", key)
}

// Delete removes a value.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return retryableRedis(s.client.Del(ctx, key).Err())
	})
	return storeErr(err, "del", key)
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// retryableRedis marks network errors as retryable. Redis error replies
// (WRONGTYPE, NOAUTH, ...) are returned as-is.
func retryableRedis(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
