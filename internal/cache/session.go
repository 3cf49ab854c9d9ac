package cache

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// sessionPrefix is the Redis key prefix for admin sessions.
	sessionPrefix = "session:"
	// sessionEmailField holds the signed-in user's email.
	sessionEmailField = "email"
	// sessionIDBytes is the entropy of a session token.
	sessionIDBytes = 32
)

// ErrEmptySessionID is returned when an operation needs a session token.
var ErrEmptySessionID = errors.New("empty session id")

// SessionStore keeps admin sessions as Redis hashes keyed by a hash of
// the cookie token. Each hash holds at most the "email" field.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore whose entries expire after ttl.
func NewSessionStore(c *Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{client: c.client, ttl: ttl}
}

// Start creates a fresh session bound to email and returns its token.
// A new token is issued on every login so a pre-login token cannot be
// carried into an authenticated session.
func (s *SessionStore) Start(ctx context.Context, email string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	key := sessionKey(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionEmailField, email)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return id, nil
}

// Email returns the email stored in the session, or "" when the session
// is unknown, expired or signed out.
func (s *SessionStore) Email(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}

	email, err := s.client.HGet(ctx, sessionKey(id), sessionEmailField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("load session: %w", err)
	}

	return email, nil
}

// ClearEmail removes the email field from the session.
func (s *SessionStore) ClearEmail(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptySessionID
	}
	if err := s.client.HDel(ctx, sessionKey(id), sessionEmailField).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// TTL returns the lifetime given to new sessions.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func sessionKey(id string) string {
	return sessionPrefix + hashKey(id, 16)
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
