package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares the failure counters between instances. Keys live under
// "login:fail:" and expire with the window.
type Redis struct {
	client      *redis.Client
	maxFailures int
	period      time.Duration
}

func NewRedis(client *redis.Client, maxFailures int, period time.Duration) *Redis {
	return &Redis{client: client, maxFailures: maxFailures, period: period}
}

func (r *Redis) key(k string) string { return "login:fail:" + k }

func (r *Redis) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Get(ctx, r.key(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("throttle lookup: %w", err)
	}
	return n >= r.maxFailures, nil
}

func (r *Redis) Fail(ctx context.Context, key string) error {
	cnt, err := r.client.Incr(ctx, r.key(key)).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if cnt == 1 {
		if err := r.client.Expire(ctx, r.key(key), r.period).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

func (r *Redis) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// New picks the implementation for the configured policy: Disabled when
// maxFailures is not positive, Redis when a client is available, Memory otherwise.
func New(client *redis.Client, maxFailures int, period time.Duration) Throttle {
	if maxFailures <= 0 {
		return Disabled{}
	}
	if client != nil {
		return NewRedis(client, maxFailures, period)
	}
	return NewMemory(maxFailures, period, nil)
}
