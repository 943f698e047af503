package auth

import (
	"context"

	"github.com/picfeed/picfeed/models"
)

// SessionSource yields the session behind an opaque token. Implemented by
// SessionStore; tests substitute fakes.
type SessionSource interface {
	Get(ctx context.Context, token string) (Session, bool, error)
}

// UserSource yields the authoritative user row for an id, nil when absent.
type UserSource interface {
	ByID(ctx context.Context, id int) (*models.User, error)
}

// Resolver maps an opaque session token to the current user row. The row is
// read fresh from the primary store on every call so that ban and authority
// changes take effect immediately; nothing here consults a cache.
type Resolver struct {
	sessions SessionSource
	users    UserSource
}

// NewResolver wires a session resolver.
func NewResolver(sessions SessionSource, users UserSource) *Resolver {
	return &Resolver{sessions: sessions, users: users}
}

// UserFromToken resolves a token to the current user and its session. An
// empty or unknown token, or a session whose user no longer exists, resolves
// to logged-out (nil user, nil error) rather than an error.
func (r *Resolver) UserFromToken(ctx context.Context, token string) (*models.User, *Session, error) {
	if token == "" {
		return nil, nil, nil
	}
	sess, ok, err := r.sessions.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}
	user, err := r.users.ByID(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, nil
	}
	return user, &sess, nil
}
