package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// LeaseLock implements ports.LeaseLocker with SET NX PX. It keeps periodic
// jobs (expiry sweep, buyback cycle) to one replica at a time.
type LeaseLock struct {
	client *goredis.Client
	prefix string
}

// NewLeaseLock creates a new Redis-backed lease lock.
func NewLeaseLock(client *goredis.Client) *LeaseLock {
	return &LeaseLock{
		client: client,
		prefix: "wts:lease:",
	}
}

// Acquire takes the named lease for ttl. It returns ok=false when another
// holder has it.
func (l *LeaseLock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	_, err := l.client.SetArgs(ctx, l.prefix+name, token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis lease acquire: %w", err)
	}
	return token, true, nil
}

// Release gives the lease back if token still holds it.
func (l *LeaseLock) Release(ctx context.Context, name, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + name}, token).Err(); err != nil {
		return fmt.Errorf("redis lease release: %w", err)
	}
	return nil
}
