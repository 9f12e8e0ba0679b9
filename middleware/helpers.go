package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/services"
)

type contextKey string

const (
	claimsContextKey contextKey = "claims"
	loggerContextKey contextKey = "logger"
)

var ErrNoClaims = errors.New("user claims not found in context")

// WithClaims кладёт claims токена в контекст запроса.
func WithClaims(ctx context.Context, claims *services.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func GetClaimsFromContext(ctx context.Context) (*services.TokenClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*services.TokenClaims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := GetClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// OptionalUserID — ID пользователя для маршрутов с необязательной авторизацией.
func OptionalUserID(ctx context.Context) *uuid.UUID {
	id, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil
	}
	return &id
}

// WithLogger кладёт в контекст логгер запроса.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, log)
}

// LoggerFromContext возвращает логгер запроса, а вне RequestLogger — slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
