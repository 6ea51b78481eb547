package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/inventory_backend/appctx"
)

var (
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyRole          = appctx.ContextKeyRole
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRole)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetRoleInContext(ctx context.Context, role string) context.Context {
	return appctx.Set(ctx, ContextKeyRole, role)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
