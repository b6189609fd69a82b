package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"bookmood/internal/httpx"
)

const (
	sessionID      = "5e1d9c3b-4a7f-4c28-a6e0-8b2f1d7c9a35"
	otherSessionID = "9b4a7e2c-6d1f-4e83-b5c9-2a8d0f3e6b71"
)

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID, "USER"))
}

func TestHTTPHandler_ListSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, NewMockBlacklist(ctrl)))

	t.Run("lists only active sessions of the caller", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		repo.EXPECT().ListByUserID(gomock.Any(), "u-1").Return([]Session{
			{ID: sessionID, UserID: "u-1", UserAgent: "curl", CreatedAt: now, LastUsedAt: now, ExpiresAt: now.Add(time.Hour)},
		}, nil)

		w := httptest.NewRecorder()
		handler.ListSessions(w, authed(httptest.NewRequest(http.MethodGet, "/v1/me/sessions", nil), "u-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"`+sessionID+`"`)
		assert.Contains(t, w.Body.String(), `"created_at":"2026-03-01T09:00:00Z"`)
		assert.NotContains(t, w.Body.String(), "refresh_token_hash")
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListSessions(w, httptest.NewRequest(http.MethodGet, "/v1/me/sessions", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store error", func(t *testing.T) {
		repo.EXPECT().ListByUserID(gomock.Any(), "u-2").Return(nil, errors.New("db down"))
		w := httptest.NewRecorder()
		handler.ListSessions(w, authed(httptest.NewRequest(http.MethodGet, "/v1/me/sessions", nil), "u-2"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_DeleteSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo, NewMockBlacklist(ctrl)))

	newReq := func(id, userID string) *http.Request {
		r := httptest.NewRequest(http.MethodDelete, "/v1/me/sessions/"+id, nil)
		r.SetPathValue("id", id)
		return authed(r, userID)
	}

	t.Run("revoked", func(t *testing.T) {
		repo.EXPECT().Delete(gomock.Any(), sessionID, "u-1").Return(nil)
		w := httptest.NewRecorder()
		handler.DeleteSession(w, newReq(sessionID, "u-1"))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("someone else's session", func(t *testing.T) {
		repo.EXPECT().Delete(gomock.Any(), otherSessionID, "u-1").Return(ErrNotFound)
		w := httptest.NewRecorder()
		handler.DeleteSession(w, newReq(otherSessionID, "u-1"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.DeleteSession(w, newReq("abc", "u-1"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/v1/me/sessions/"+sessionID, nil)
		r.SetPathValue("id", sessionID)
		handler.DeleteSession(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
