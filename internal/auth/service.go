package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bookmood/internal/platform/crypto"
	"bookmood/internal/session"
)

var ErrUnauthorized = errors.New("unauthorized")

// TokenTTLs controls how long issued credentials live.
type TokenTTLs struct {
	Access          time.Duration
	Refresh         time.Duration
	RefreshRemember time.Duration
}

// Tokens is what a successful login or refresh hands back to the client.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Client describes the device asking for a session.
type Client struct {
	UserAgent string
	IPAddress string
}

type Service struct {
	secret   string
	ttl      TokenTTLs
	users    Users
	sessions Sessions
	logger   *zap.Logger
}

func NewService(secret string, ttl TokenTTLs, users Users, sessions Sessions, logger *zap.Logger) *Service {
	if ttl.Access <= 0 {
		ttl.Access = 15 * time.Minute
	}
	if ttl.Refresh <= 0 {
		ttl.Refresh = 30 * 24 * time.Hour
	}
	if ttl.RefreshRemember <= 0 {
		ttl.RefreshRemember = 3 * ttl.Refresh
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{secret: secret, ttl: ttl, users: users, sessions: sessions, logger: logger}
}

func (s *Service) refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return s.ttl.RefreshRemember
	}
	return s.ttl.Refresh
}

func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool, client Client) (Tokens, error) {
	u, ok := s.users.Authenticate(ctx, email, password)
	if !ok {
		return Tokens{}, ErrUnauthorized
	}

	tokens, err := s.issue(ctx, session.Session{
		UserID:     u.ID,
		UserAgent:  client.UserAgent,
		IPAddress:  client.IPAddress,
		RememberMe: rememberMe,
	}, u.Role)
	if err != nil {
		return Tokens{}, err
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", u.ID), zap.Error(err))
	}
	return tokens, nil
}

// Refresh rotates the refresh token: the presented one stops working.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	tokenHash := crypto.HashToken(refreshToken)
	sess, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}

	if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	sess.ID = ""
	return s.issue(ctx, sess, u.Role)
}

func (s *Service) issue(ctx context.Context, sess session.Session, role string) (Tokens, error) {
	accessToken, _, err := crypto.GenerateToken(s.secret, sess.UserID, role, s.ttl.Access)
	if err != nil {
		return Tokens{}, err
	}
	refreshToken, err := crypto.NewRefreshToken()
	if err != nil {
		return Tokens{}, err
	}

	sess.RefreshTokenHash = crypto.HashToken(refreshToken)
	sess.ExpiresAt = time.Now().Add(s.refreshTTL(sess.RememberMe))
	if err := s.sessions.Create(ctx, &sess); err != nil {
		return Tokens{}, err
	}

	return Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.ttl.Access.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// Logout revokes the access token until it expires and, when given, drops
// the refresh session too.
func (s *Service) Logout(ctx context.Context, userID, jti string, expiresAt time.Time, refreshToken string) error {
	if userID == "" || jti == "" {
		return ErrUnauthorized
	}
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.ttl.Access)
	}
	if err := s.sessions.AddToBlacklist(ctx, jti, userID, expiresAt); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	err := s.sessions.DeleteByTokenHash(ctx, crypto.HashToken(refreshToken))
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}
	return nil
}
