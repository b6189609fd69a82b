package auth

import (
	"context"
	"time"

	"bookmood/internal/session"
	"bookmood/internal/user"
)

// Users is the slice of user.Service the login flow needs.
type Users interface {
	Authenticate(ctx context.Context, email, password string) (user.User, bool)
	GetByID(ctx context.Context, id string) (user.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// Sessions is the slice of session.Service the login flow needs.
type Sessions interface {
	Create(ctx context.Context, sess *session.Session) error
	GetByTokenHash(ctx context.Context, hash string) (session.Session, error)
	DeleteByTokenHash(ctx context.Context, hash string) error
	AddToBlacklist(ctx context.Context, jti, userID string, expiresAt time.Time) error
}
