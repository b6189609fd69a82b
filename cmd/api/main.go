package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bookmood/internal/analysis"
	"bookmood/internal/archive"
	"bookmood/internal/auth"
	"bookmood/internal/book"
	"bookmood/internal/config"
	"bookmood/internal/httpx"
	"bookmood/internal/library"
	"bookmood/internal/platform/aladin"
	"bookmood/internal/platform/llm"
	"bookmood/internal/platform/logger"
	"bookmood/internal/platform/postgres"
	"bookmood/internal/platform/redisx"
	"bookmood/internal/review"
	"bookmood/internal/session"
	"bookmood/internal/user"
)

const sessionCleanupInterval = time.Hour

type middlewareDeps struct {
	logger       *zap.Logger
	enableHSTS   bool
	corsOrigins  []string
	maxBodyBytes int64
	rateLimit    *httpx.RateLimitMiddleware
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	dbPool, err := postgres.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	zlog.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.DatabaseDSN)))

	rdb, err := redisx.NewClient(ctx, cfg.RedisURL, zlog)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	analyzer, err := newAnalyzer(cfg, rdb, zlog)
	if err != nil {
		return err
	}

	sessionService := session.NewService(
		session.NewPostgresRepo(dbPool, cfg.DBTimeout),
		session.NewRedisBlacklist(rdb),
	)
	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.DBTimeout))
	authService := auth.NewService(cfg.JWTSecret, auth.TokenTTLs{
		Access:  cfg.AccessTokenTTL,
		Refresh: cfg.RefreshTokenTTL,
	}, userService, sessionService, zlog)

	catalog := aladin.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.TTBKey, cfg.Catalog.RPS, cfg.Catalog.MaxRetries)
	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.DBTimeout), catalog, zlog)
	libraryService := library.NewService(library.NewPostgresRepo(dbPool, cfg.DBTimeout), bookService)
	reviewService := review.NewService(review.NewPostgresRepo(dbPool, cfg.DBTimeout), bookService, analyzer, zlog)
	archiveService := archive.NewService(archive.NewPostgresRepo(dbPool, cfg.DBTimeout))

	router := newRouter(handlers{
		users:    user.NewHTTPHandler(userService),
		auth:     auth.NewHTTPHandler(authService),
		sessions: session.NewHTTPHandler(sessionService),
		books:    book.NewHTTPHandler(bookService),
		library:  library.NewHTTPHandler(libraryService),
		reviews:  review.NewHTTPHandler(reviewService),
		archive:  archive.NewHTTPHandler(archiveService),
	}, httpx.AuthMiddleware(cfg.JWTSecret, sessionService), readiness(dbPool, rdb))

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: withMiddleware(router, middlewareDeps{
			logger:       zlog,
			enableHSTS:   cfg.EnableHSTS,
			corsOrigins:  cfg.CORSOrigins,
			maxBodyBytes: cfg.MaxBodyBytes,
			rateLimit:    rateLimiter,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupSessions(ctx, sessionService, zlog)

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("llm_enabled", cfg.LLM.Enabled))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTTL)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newAnalyzer(cfg *config.Config, rdb *redis.Client, zlog *zap.Logger) (*analysis.Service, error) {
	lex, err := analysis.LoadLexicon(cfg.Analysis.LexiconPath)
	if err != nil {
		return nil, err
	}
	heuristic := analysis.NewHeuristic(lex, nil)

	if !cfg.LLM.Enabled {
		return analysis.NewService(heuristic, nil, nil, analysis.GuardPolicy{}, zlog), nil
	}

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	policy := analysis.GuardPolicy{
		Enabled:        true,
		UserCooldown:   cfg.LLM.UserCooldown,
		GlobalInterval: cfg.LLM.GlobalInterval,
	}
	calls := analysis.NewRedisCallLog(rdb, "", policy.Retention())
	return analysis.NewService(heuristic, analysis.NewLLMAnalyzer(client, nil), calls, policy, zlog), nil
}

func readiness(db *pgxpool.Pool, rdb *redis.Client) map[string]pinger {
	return map[string]pinger{
		"db": db.Ping,
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
}

func cleanupSessions(ctx context.Context, sessions *session.Service, zlog *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanupExpired(ctx)
			if err != nil {
				zlog.Warn("session cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zlog.Info("expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
