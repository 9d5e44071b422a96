package api

import (
	"context"
	"log/slog"

	"github.com/International-Combat-Archery-Alliance/auth"
	"github.com/google/uuid"
)

const (
	ctxRequestIdKey = "REQUEST_ID"
	ctxLoggerKey    = "LOGGER"
	ctxAuthTokenKey = "AUTH_TOKEN"
)

func ctxWithRequestId(ctx context.Context, requestId uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxRequestIdKey, requestId)
}

func getRequestIdFromCtx(ctx context.Context) uuid.UUID {
	return ctx.Value(ctxRequestIdKey).(uuid.UUID)
}

func ctxWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey, logger)
}

func (a *API) getLoggerOrBaseLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxLoggerKey).(*slog.Logger)
	if !ok {
		return a.logger
	}
	return logger
}

func ctxWithAuthToken(ctx context.Context, token auth.AuthToken) context.Context {
	return context.WithValue(ctx, ctxAuthTokenKey, token)
}
