package middleware

import "context"

type contextKey string

const (
	ctxClientID  contextKey = "client_id"
	ctxRequestID contextKey = "request_id"
)

// ClientIDFromContext returns the storage namespace resolved by ClientID.
func ClientIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxClientID)
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRequestID)
}

// WithClientID injects the client identifier into the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClientID, clientID)
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
