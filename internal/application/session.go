package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/pkg/helpers"
)

// Session is the server-side record of an authenticated browser. The sid is
// opaque; the JWT cookie pair only transports uid+sid and is rejected once
// the sid here no longer matches.
type Session struct {
	SID        string
	UserID     string
	Username   string
	RedirectTo string
	ExpiresAt  time.Time
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// SessionIssuer mints and invalidates sessions backed by a Redis hash per
// user. One active session per user; issuing replaces the previous sid.
type SessionIssuer struct {
	Redis *redis.Client
	JWT   *helpers.JWTManager
	TTL   time.Duration
}

func NewSessionIssuer(rdb *redis.Client, jwt *helpers.JWTManager, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{Redis: rdb, JWT: jwt, TTL: ttl}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Issue creates a session for u and the cookie token pair carrying its sid.
// A Redis write failure fails the whole login; a session that is not stored
// is not a session.
func (s *SessionIssuer) Issue(ctx context.Context, u *entity.User, redirectTo string) (*Session, TokenPair, error) {
	redirectTo = normalizeRedirect(redirectTo)
	sid := uuid.NewString()

	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return nil, TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return nil, TokenPair{}, err
	}

	sess := &Session{
		SID:        sid,
		UserID:     u.ID,
		Username:   u.Username,
		RedirectTo: redirectTo,
		ExpiresAt:  time.Now().Add(s.TTL),
	}

	key := sessionKey(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"sid":         sid,
		"user_id":     u.ID,
		"username":    u.Username,
		"clearance":   string(u.Clearance),
		"redirect_to": redirectTo,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, TokenPair{}, err
	}

	pair := TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}
	return sess, pair, nil
}

// Get returns the stored session fields for a user, or nil when no session
// is active.
func (s *SessionIssuer) Get(ctx context.Context, userID string) (map[string]string, error) {
	data, err := s.Redis.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// Invalidate removes the user's session. Idempotent.
func (s *SessionIssuer) Invalidate(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, sessionKey(userID)).Err()
}
