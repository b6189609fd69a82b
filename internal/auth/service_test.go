package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookmood/internal/platform/crypto"
	"bookmood/internal/session"
	"bookmood/internal/user"
)

const testSecret = "auth-service-test-secret"

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Authenticate(ctx context.Context, email, password string) (user.User, bool) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(user.User), args.Bool(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUsers) TouchLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Create(ctx context.Context, sess *session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *mockSessions) GetByTokenHash(ctx context.Context, hash string) (session.Session, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockSessions) DeleteByTokenHash(ctx context.Context, hash string) error {
	return m.Called(ctx, hash).Error(0)
}

func (m *mockSessions) AddToBlacklist(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return m.Called(ctx, jti, userID, expiresAt).Error(0)
}

func newTestService(users *mockUsers, sessions *mockSessions) *Service {
	return NewService(testSecret, TokenTTLs{Access: 15 * time.Minute, Refresh: 24 * time.Hour}, users, sessions, nil)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	reader := user.User{ID: "u-1", Email: "reader@example.com", Role: user.RoleUser}

	t.Run("issues tokens and stores hashed refresh token", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		svc := newTestService(users, sessions)

		users.On("Authenticate", ctx, "reader@example.com", "Secret123!").Return(reader, true)
		users.On("TouchLastLogin", ctx, "u-1").Return(nil)
		var stored *session.Session
		sessions.On("Create", ctx, mock.AnythingOfType("*session.Session")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*session.Session) }).
			Return(nil)

		tokens, err := svc.Login(ctx, "reader@example.com", "Secret123!", true, Client{UserAgent: "curl", IPAddress: "10.0.0.1"})
		require.NoError(t, err)

		assert.Equal(t, 900, tokens.ExpiresIn)
		assert.Equal(t, "Bearer", tokens.TokenType)
		claims, err := crypto.ParseToken(testSecret, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.Sub)
		assert.Equal(t, user.RoleUser, claims.Role)
		assert.NotEmpty(t, claims.ID)

		require.NotNil(t, stored)
		assert.Equal(t, crypto.HashToken(tokens.RefreshToken), stored.RefreshTokenHash)
		assert.NotEqual(t, tokens.RefreshToken, stored.RefreshTokenHash)
		assert.Equal(t, "curl", stored.UserAgent)
		assert.True(t, stored.RememberMe)
		assert.WithinDuration(t, time.Now().Add(72*time.Hour), stored.ExpiresAt, time.Minute)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		users.On("Authenticate", ctx, "reader@example.com", "bad").Return(user.User{}, false)

		_, err := newTestService(users, sessions).Login(ctx, "reader@example.com", "bad", false, Client{})
		assert.ErrorIs(t, err, ErrUnauthorized)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("last login failure does not fail login", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		users.On("Authenticate", ctx, "reader@example.com", "Secret123!").Return(reader, true)
		users.On("TouchLastLogin", ctx, "u-1").Return(errors.New("db down"))
		sessions.On("Create", ctx, mock.Anything).Return(nil)

		_, err := newTestService(users, sessions).Login(ctx, "reader@example.com", "Secret123!", false, Client{})
		assert.NoError(t, err)
	})

	t.Run("session store failure", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		users.On("Authenticate", ctx, "reader@example.com", "Secret123!").Return(reader, true)
		sessions.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := newTestService(users, sessions).Login(ctx, "reader@example.com", "Secret123!", false, Client{})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	oldToken := "old-refresh-token"
	oldHash := crypto.HashToken(oldToken)

	t.Run("rotates the refresh token", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		svc := newTestService(users, sessions)

		sessions.On("GetByTokenHash", ctx, oldHash).Return(session.Session{ID: "s-1", UserID: "u-1", UserAgent: "curl"}, nil)
		users.On("GetByID", ctx, "u-1").Return(user.User{ID: "u-1", Role: user.RoleUser}, nil)
		sessions.On("DeleteByTokenHash", ctx, oldHash).Return(nil)
		sessions.On("Create", ctx, mock.MatchedBy(func(s *session.Session) bool {
			return s.ID == "" && s.UserID == "u-1" && s.UserAgent == "curl" && s.RefreshTokenHash != oldHash
		})).Return(nil)

		tokens, err := svc.Refresh(ctx, oldToken)
		require.NoError(t, err)
		assert.NotEqual(t, oldToken, tokens.RefreshToken)
		sessions.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		sessions.On("GetByTokenHash", ctx, oldHash).Return(session.Session{}, session.ErrNotFound)

		_, err := newTestService(users, sessions).Refresh(ctx, oldToken)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token used concurrently", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		sessions.On("GetByTokenHash", ctx, oldHash).Return(session.Session{ID: "s-1", UserID: "u-1"}, nil)
		users.On("GetByID", ctx, "u-1").Return(user.User{ID: "u-1"}, nil)
		sessions.On("DeleteByTokenHash", ctx, oldHash).Return(session.ErrNotFound)

		_, err := newTestService(users, sessions).Refresh(ctx, oldToken)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("user deleted", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		sessions.On("GetByTokenHash", ctx, oldHash).Return(session.Session{ID: "s-1", UserID: "gone"}, nil)
		users.On("GetByID", ctx, "gone").Return(user.User{}, user.ErrNotFound)

		_, err := newTestService(users, sessions).Refresh(ctx, oldToken)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(10 * time.Minute)

	t.Run("blacklists jti and drops refresh session", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		sessions.On("AddToBlacklist", ctx, "jti-1", "u-1", exp).Return(nil)
		sessions.On("DeleteByTokenHash", ctx, crypto.HashToken("rt")).Return(session.ErrNotFound)

		err := newTestService(users, sessions).Logout(ctx, "u-1", "jti-1", exp, "rt")
		assert.NoError(t, err)
		sessions.AssertExpectations(t)
	})

	t.Run("access token only", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		sessions.On("AddToBlacklist", ctx, "jti-1", "u-1", exp).Return(nil)

		assert.NoError(t, newTestService(users, sessions).Logout(ctx, "u-1", "jti-1", exp, ""))
		sessions.AssertNotCalled(t, "DeleteByTokenHash", mock.Anything, mock.Anything)
	})

	t.Run("missing token id", func(t *testing.T) {
		err := newTestService(new(mockUsers), new(mockSessions)).Logout(ctx, "u-1", "", exp, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("blacklist store down", func(t *testing.T) {
		users, sessions := new(mockUsers), new(mockSessions)
		sessions.On("AddToBlacklist", ctx, "jti-1", "u-1", exp).Return(errors.New("redis down"))

		assert.Error(t, newTestService(users, sessions).Logout(ctx, "u-1", "jti-1", exp, ""))
	})
}
