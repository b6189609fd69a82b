package library

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"bookmood/internal/book"
	"bookmood/internal/httpx"
)

func authed(r *http.Request) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", "USER"))
}

func TestHTTPHandler_Add(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(book.External{ISBN13: testISBN}, nil)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/library", strings.NewReader(`{"isbn":"`+testISBN+`","status":"reading"}`))
		NewHTTPHandler(svc).Add(w, authed(r))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"reading"`)
		assert.Contains(t, w.Body.String(), `"started_at":"2026-05-10"`)
	})

	t.Run("wishlist with status is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/library", strings.NewReader(`{"isbn":"`+testISBN+`","wishlist":true,"status":"reading"}`))
		NewHTTPHandler(svc).Add(w, authed(r))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown shelf", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/library", strings.NewReader(`{"isbn":"`+testISBN+`","status":"finished"}`))
		NewHTTPHandler(svc).Add(w, authed(r))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login required", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/library", strings.NewReader(`{"isbn":"`+testISBN+`"}`))
		NewHTTPHandler(svc).Add(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), httpx.MsgLoginRequired)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(book.External{ISBN13: testISBN}, nil)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{ID: itemID}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/library", strings.NewReader(`{"isbn":"`+testISBN+`","wishlist":true}`))
		NewHTTPHandler(svc).Add(w, authed(r))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHTTPHandler_UpdateProgress(t *testing.T) {
	send := func(h *HTTPHandler, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/v1/library/"+itemID+"/progress", strings.NewReader(body))
		r.SetPathValue("id", itemID)
		h.UpdateProgress(w, authed(r))
		return w
	}

	t.Run("ok", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Get(gomock.Any(), "u-1", itemID).Return(Item{ID: itemID, Status: statusPtr(StatusReading)}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		w := send(NewHTTPHandler(svc), `{"progress":45}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"progress":45`)
	})

	t.Run("missing progress", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		assert.Equal(t, http.StatusBadRequest, send(NewHTTPHandler(svc), `{}`).Code)
	})

	t.Run("out of range", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		assert.Equal(t, http.StatusBadRequest, send(NewHTTPHandler(svc), `{"progress":120}`).Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Get(gomock.Any(), "u-1", itemID).Return(Item{}, ErrNotFound)
		assert.Equal(t, http.StatusNotFound, send(NewHTTPHandler(svc), `{"progress":10}`).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/v1/library/abc/progress", strings.NewReader(`{"progress":10}`))
		r.SetPathValue("id", "abc")
		NewHTTPHandler(svc).UpdateProgress(w, authed(r))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Library item not found")
	})
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("wishlist filter", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		wl := true
		repo.EXPECT().List(gomock.Any(), ListFilter{UserID: "u-1", Wishlist: &wl, Limit: 20}).
			Return([]Item{NewWishlistItem("u-1", testISBN)}, 1, nil)

		w := httptest.NewRecorder()
		NewHTTPHandler(svc).List(w, authed(httptest.NewRequest(http.MethodGet, "/v1/library?wishlist=true", nil)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"wishlist":true`)
		assert.Contains(t, w.Body.String(), `"status":null`)
	})

	t.Run("bad status", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		w := httptest.NewRecorder()
		NewHTTPHandler(svc).List(w, authed(httptest.NewRequest(http.MethodGet, "/v1/library?status=done", nil)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Remove(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.EXPECT().Delete(gomock.Any(), "u-1", itemID).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/v1/library/"+itemID, nil)
	r.SetPathValue("id", itemID)
	NewHTTPHandler(svc).Remove(w, authed(r))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHTTPHandler_Remove_MalformedID(t *testing.T) {
	svc, _, _ := newTestService(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/v1/library/not-a-uuid", nil)
	r.SetPathValue("id", "not-a-uuid")
	NewHTTPHandler(svc).Remove(w, authed(r))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
