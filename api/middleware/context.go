package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	ctxUserID contextKey = iota
	ctxRole
	ctxRequestID
)

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

// UserUUIDFromContext returns uuid.Nil for anonymous requests.
func UserUUIDFromContext(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRequestID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return withValue(ctx, ctxUserID, userID)
}

func WithRole(ctx context.Context, role string) context.Context {
	return withValue(ctx, ctxRole, role)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, ctxRequestID, requestID)
}
