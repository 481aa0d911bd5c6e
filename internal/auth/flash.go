package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	flashKeyPrefix = "flash:"
	flashTTL       = 5 * time.Minute
)

// Flashes stores one-time user-facing notices in Redis. A notice is readable
// exactly once: the read deletes it.
type Flashes struct {
	rdb RedisCmd
}

// NewFlashes returns a new flash store.
func NewFlashes(rdb RedisCmd) *Flashes {
	return &Flashes{rdb: rdb}
}

// Put stores the notice and returns the key the carrying cookie should hold.
func (f *Flashes) Put(ctx context.Context, notice string) (string, error) {
	id := uuid.NewString()
	if err := f.rdb.Set(ctx, flashKeyPrefix+id, notice, flashTTL).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Take consumes the notice. A second Take for the same id misses.
func (f *Flashes) Take(ctx context.Context, id string) (string, bool) {
	notice, err := f.rdb.GetDel(ctx, flashKeyPrefix+id).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		return "", false
	}
	return notice, true
}
