package main

import (
	"context"
	"net/http"
	"time"

	"bookmood/internal/archive"
	"bookmood/internal/auth"
	"bookmood/internal/book"
	"bookmood/internal/httpx"
	"bookmood/internal/library"
	"bookmood/internal/review"
	"bookmood/internal/session"
	"bookmood/internal/user"
)

type handlers struct {
	users    *user.HTTPHandler
	auth     *auth.HTTPHandler
	sessions *session.HTTPHandler
	books    *book.HTTPHandler
	library  *library.HTTPHandler
	reviews  *review.HTTPHandler
	archive  *archive.HTTPHandler
}

// pinger is anything /readyz has to reach before reporting ready.
type pinger func(ctx context.Context) error

func newRouter(h handlers, requireAuth func(http.Handler) http.Handler, ready map[string]pinger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		for name, ping := range ready {
			if err := ping(ctx); err != nil {
				http.Error(w, name+" not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	protected := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}

	// accounts
	mux.HandleFunc("POST /v1/users/register", h.users.Register)
	mux.HandleFunc("POST /v1/users/login", h.auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.auth.Refresh)
	mux.Handle("POST /v1/auth/logout", protected(h.auth.Logout))
	mux.Handle("GET /v1/me", protected(h.users.Me))
	mux.Handle("GET /v1/me/sessions", protected(h.sessions.ListSessions))
	mux.Handle("DELETE /v1/me/sessions/{id}", protected(h.sessions.DeleteSession))

	// catalog
	mux.HandleFunc("GET /v1/books", h.books.List)
	mux.HandleFunc("GET /v1/books/search", h.books.Search)
	mux.HandleFunc("GET /v1/books/{isbn}", h.books.GetByISBN)
	mux.HandleFunc("GET /v1/books/{isbn}/reviews", h.reviews.ListByBook)

	// library
	mux.Handle("GET /v1/library", protected(h.library.List))
	mux.Handle("POST /v1/library", protected(h.library.Add))
	mux.Handle("POST /v1/library/reading", protected(h.library.StartReading))
	mux.Handle("GET /v1/library/{id}", protected(h.library.Get))
	mux.Handle("PATCH /v1/library/{id}", protected(h.library.UpdateDetails))
	mux.Handle("DELETE /v1/library/{id}", protected(h.library.Remove))
	mux.Handle("PATCH /v1/library/{id}/progress", protected(h.library.UpdateProgress))
	mux.Handle("PATCH /v1/library/{id}/status", protected(h.library.SetStatus))
	mux.Handle("POST /v1/library/{id}/complete", protected(h.library.Complete))
	mux.Handle("POST /v1/library/{id}/wishlist", protected(h.library.MoveToWishlist))

	// reviews
	mux.Handle("POST /v1/reviews", protected(h.reviews.Submit))
	mux.Handle("POST /v1/reviews/preview", protected(h.reviews.Preview))
	mux.Handle("GET /v1/reviews/{id}", protected(h.reviews.Get))
	mux.Handle("PATCH /v1/reviews/{id}", protected(h.reviews.Update))
	mux.Handle("DELETE /v1/reviews/{id}", protected(h.reviews.Delete))
	mux.Handle("GET /v1/me/reviews", protected(h.reviews.ListMine))

	mux.Handle("GET /v1/me/archive", protected(h.archive.Dashboard))

	return mux
}

// withMiddleware wraps the router in the global chain, outermost first.
func withMiddleware(next http.Handler, deps middlewareDeps) http.Handler {
	return httpx.Chain(next,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(deps.logger),
		httpx.RecoveryMiddleware(deps.logger),
		httpx.SecurityHeadersMiddleware(deps.enableHSTS),
		httpx.CORSMiddleware(deps.corsOrigins),
		httpx.RequestSizeLimitMiddleware(deps.maxBodyBytes),
		deps.rateLimit.Middleware,
	)
}
