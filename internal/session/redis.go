package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON under "sess:<id>" with a sliding TTL and
// uses SETNX on "lock:sess:<id>" for the generation lock.
type RedisStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisStore builds a store; lockTTL bounds a lock orphaned by a crash.
func NewRedisStore(rdb *redis.Client, ttl, lockTTL time.Duration) *RedisStore {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

func (r *RedisStore) Load(ctx context.Context, id string) (State, error) {
	raw, err := r.rdb.Get(ctx, "sess:"+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{Phase: PhaseIdle}, nil
	}
	if err != nil {
		return State{}, err
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, err
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, "sess:"+id, b, r.ttl).Err()
}

func (r *RedisStore) Lock(ctx context.Context, id string) (bool, error) {
	return r.rdb.SetNX(ctx, "lock:sess:"+id, "1", r.lockTTL).Result()
}

func (r *RedisStore) Unlock(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, "lock:sess:"+id).Err()
}
