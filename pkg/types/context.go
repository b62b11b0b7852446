package types

import "context"

type contextKey string

const ctxRequestID contextKey = "request_id"

// WithRequestID injects the request identifier into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestID, requestID)
}

// RequestIDFromContext returns the request identifier, or "" when unset.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}
