package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	dom "accounts/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = 7 * 24 * time.Hour
)

// ErrNoSession is returned when a session key does not resolve. Expired
// sessions fall under this too: Redis drops the key when the TTL runs out,
// so an expired session is indistinguishable from one that never existed.
var ErrNoSession = errors.New("session not found")

// Store manages sessions in Redis, one key per active login.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Create stores a new session for the user and returns it. Every call mints
// a fresh token; existing sessions for the same user are left alone.
func (s *Store) Create(ctx context.Context, userID int64) (dom.Session, error) {
	key, err := newSessionKey()
	if err != nil {
		return dom.Session{}, err
	}
	expiresAt := time.Now().Add(s.ttl)
	if err := s.rdb.Set(ctx, sessionKeyPrefix+key, userID, s.ttl).Err(); err != nil {
		return dom.Session{}, err
	}
	return dom.Session{Key: key, UserID: userID, ExpiresAt: expiresAt}, nil
}

// GetUserID resolves a session key to its user ID, or ErrNoSession.
func (s *Store) GetUserID(ctx context.Context, key string) (int64, error) {
	id, err := s.rdb.Get(ctx, sessionKeyPrefix+key).Int64()
	if err == redis.Nil {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes a session by key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+key).Err()
}

func newSessionKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
