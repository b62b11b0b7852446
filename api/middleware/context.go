package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxTenantID contextKey = "tenant_id"

// WithTenantID injects the tenant identifier into the context.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTenantID, tenantID)
}

// TenantIDFromContext returns the tenant scope, or uuid.Nil when unset.
func TenantIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxTenantID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}
