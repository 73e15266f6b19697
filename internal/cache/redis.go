package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client and pings it so a bad REDIS_ADDR fails at boot.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
