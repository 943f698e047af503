package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the record behind an opaque token: a user-id back-reference plus
// the per-session anti-forgery token. It never carries denormalized user
// fields; the user row is re-read from the store of record on every
// resolution.
type Session struct {
	UserID    int    `json:"user_id"`
	CSRFToken string `json:"csrf_token"`
}

const sessionKeyPrefix = "picfeed:session:"

// SessionStore keeps opaque-token sessions in redis with a TTL.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore wraps a redis client. A non-positive ttl defaults to 24h.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Create issues a fresh opaque token for the user together with a new CSRF
// token.
func (s *SessionStore) Create(ctx context.Context, userID int) (string, Session, error) {
	csrf, err := randomToken()
	if err != nil {
		return "", Session{}, fmt.Errorf("auth: csrf token: %w", err)
	}
	sess := Session{UserID: userID, CSRFToken: csrf}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", Session{}, fmt.Errorf("auth: encode session: %w", err)
	}
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", Session{}, fmt.Errorf("auth: store session: %w", err)
	}
	return token, sess, nil
}

// Get returns the session behind a token. A missing or expired token is not
// an error; the second return value reports presence.
func (s *SessionStore) Get(ctx context.Context, token string) (Session, bool, error) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("auth: load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, false, fmt.Errorf("auth: decode session: %w", err)
	}
	return sess, true, nil
}

// Destroy removes the session, if any, behind the token.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("auth: destroy session: %w", err)
	}
	return nil
}

func randomToken() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
