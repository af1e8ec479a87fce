package common

import "context"

type ctxKey string

const (
	sessionIDKey ctxKey = "session/id"
	adminKey     ctxKey = "auth/admin"
)

// WithSessionID stores the storefront session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID extracts the storefront session identifier if present.
func SessionID(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// WithAdmin marks the context as carrying an authenticated admin.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey, true)
}

// IsAdmin reports whether the context carries an authenticated admin.
func IsAdmin(ctx context.Context) bool {
	v, ok := ctx.Value(adminKey).(bool)
	return ok && v
}
