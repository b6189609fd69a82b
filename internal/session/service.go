package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	blacklist Blacklist
}

func NewService(repo Repository, blacklist Blacklist) *Service {
	return &Service{repo: repo, blacklist: blacklist}
}

func (s *Service) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Revoke deletes one of the caller's sessions. Sessions of other users are
// reported as not found.
func (s *Service) Revoke(ctx context.Context, sessionID, userID string) error {
	if uuid.Validate(sessionID) != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, sessionID, userID)
}

func (s *Service) Create(ctx context.Context, sess *Session) error {
	return s.repo.Create(ctx, sess)
}

func (s *Service) GetByTokenHash(ctx context.Context, hash string) (Session, error) {
	return s.repo.GetByTokenHash(ctx, hash)
}

func (s *Service) DeleteByTokenHash(ctx context.Context, hash string) error {
	return s.repo.DeleteByTokenHash(ctx, hash)
}

func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.CleanupExpired(ctx)
}

func (s *Service) AddToBlacklist(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return s.blacklist.AddToken(ctx, jti, userID, expiresAt)
}

func (s *Service) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklist.IsBlacklisted(ctx, jti)
}
