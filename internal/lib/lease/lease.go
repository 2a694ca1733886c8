package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotHeld = errors.New("lease not held")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis hands out short exclusive leases so that only one replica runs a
// periodic job at a time.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Acquire tries to take key for ttl. It returns a release func when the
// lease was obtained and ErrNotHeld when another holder owns it.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	const op = "lease.Acquire"

	full := r.prefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, ErrNotHeld
	}

	release := func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, r.client, []string{full}, token).Int()
		if err != nil {
			return fmt.Errorf("lease.Release: %w", err)
		}
		if n == 0 {
			return ErrNotHeld
		}
		return nil
	}

	return release, nil
}
