// Package auth owns identity verification and the session lifecycle. Session
// records live in Redis and are written by the Store only.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = 48 * time.Hour
)

// RedisCmd is the slice of *redis.Client the session and flash stores use.
type RedisCmd interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store manages signed session tokens in Redis. A token is "<id>.<sig>" where
// sig is an HMAC-SHA256 of the random id under the one configured secret, so
// the cookie value is opaque to clients and unforgeable without the secret.
type Store struct {
	rdb    RedisCmd
	secret []byte
	ttl    time.Duration
}

// NewStore returns a new session store bound to the process-wide session
// secret and TTL.
func NewStore(rdb RedisCmd, secret string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Store{rdb: rdb, secret: []byte(secret), ttl: ttl}
}

// Create stores a new session bound to userID and returns its signed token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	key := sessionKeyPrefix + id
	if err := s.rdb.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return id + "." + s.sign(id), nil
}

// Resolve returns the user ID bound to the token. Absent, malformed or
// expired tokens resolve to unauthenticated without error.
func (s *Store) Resolve(ctx context.Context, token string) (int64, bool) {
	id, ok := s.verify(token)
	if !ok {
		return 0, false
	}
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// Delete removes the session eagerly (logout). Malformed tokens are ignored.
func (s *Store) Delete(ctx context.Context, token string) error {
	id, ok := s.verify(token)
	if !ok {
		return nil
	}
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *Store) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Store) verify(token string) (string, bool) {
	id, sig, found := strings.Cut(token, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		return "", false
	}
	return id, true
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
