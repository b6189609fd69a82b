package httpx

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
	tokenKey     contextKey = "token"
	loggerKey    contextKey = "logger"
)

// TokenInfo identifies the access token that authenticated the request.
type TokenInfo struct {
	ID        string
	ExpiresAt time.Time
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context with the user ID and role.
func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func ContextWithToken(ctx context.Context, tok TokenInfo) context.Context {
	return context.WithValue(ctx, tokenKey, tok)
}

func TokenFrom(r *http.Request) (TokenInfo, bool) {
	tok, ok := r.Context().Value(tokenKey).(TokenInfo)
	return tok, ok
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFrom returns the request-scoped logger, or a no-op logger.
func LoggerFrom(r *http.Request) *zap.Logger {
	if r != nil {
		if l, ok := r.Context().Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.NewNop()
}

func requestFields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r)),
	}
	if uid := UserIDFrom(r); uid != "" {
		fields = append(fields, zap.String("user_id", uid))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}
