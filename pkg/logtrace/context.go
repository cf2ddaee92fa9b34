package logtrace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	CorrelationIDKey ctxKey = "correlation_id"
	OriginKey        ctxKey = "origin"
)

// CtxWithCorrelationID stores a correlation id in the context. An empty id is
// replaced by a fresh uuid.
func CtxWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// CtxWithOrigin tags the context with the component that started the flow.
func CtxWithOrigin(ctx context.Context, origin string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, OriginKey, origin)
}

// OriginFromContext returns the origin stored by CtxWithOrigin, if any.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(OriginKey).(string); ok {
		return v
	}
	return ""
}

func extractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(CorrelationIDKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
