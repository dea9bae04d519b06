package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// ErrNil is returned by GetKey when the key does not exist.
var ErrNil = redis.Nil

// compareAndDelete removes KEYS[1] only while it still holds ARGV[1].
var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisService represents the Redis service
type RedisService struct {
	client *redis.Client
}

// Client returns the Redis client
func (r *RedisService) Client() *redis.Client {
	return r.client
}

// NewRedisService connects and pings the server.
func NewRedisService(ctx context.Context, addr, password string, db int) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, logger.WrapError(err, "redis ping")
	}

	logger.Info("Connected to Redis at %s", addr)
	return &RedisService{client: client}, nil
}

func NewRedisServiceFromClient(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

func (r *RedisService) Close() error {
	return r.client.Close()
}

// SetKey sets a key-value pair in Redis
func (r *RedisService) SetKey(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := r.client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}

// SetKeyIfAbsent stores value only when key is missing, in one round trip.
func (r *RedisService) SetKeyIfAbsent(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, logger.WrapError(err, "")
	}
	return ok, nil
}

// GetKey retrieves the value of a key from Redis
func (r *RedisService) GetKey(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNil
	}
	if err != nil {
		return "", logger.WrapError(err, "")
	}
	return val, nil
}

// DeleteKey removes a key from Redis
func (r *RedisService) DeleteKey(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}

// DeleteKeyIfValue deletes key only while it holds value. It reports whether
// a key was removed.
func (r *RedisService) DeleteKeyIfValue(ctx context.Context, key string, value string) (bool, error) {
	n, err := compareAndDelete.Run(ctx, r.client, []string{key}, value).Int()
	if err != nil {
		return false, logger.WrapError(err, "")
	}
	return n > 0, nil
}

func (r *RedisService) Publish(ctx context.Context, channel string, message interface{}) error {
	if err := r.client.Publish(ctx, channel, message).Err(); err != nil {
		return logger.WrapError(err, "")
	}
	return nil
}

// Subscribe returns a subscription whose receive has completed, so no message
// published after it returns is missed.
func (r *RedisService) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	sub := r.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, logger.WrapError(err, "")
	}
	return sub, nil
}
