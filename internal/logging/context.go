package logging

import "context"

type contextKey string

const (
	ctxKeyClientIP  contextKey = "client_ip"
	ctxKeyWorkspace contextKey = "workspace_id"
)

// WithClientIP adds the client address to ctx for request logging.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ClientIP extracts the client address from ctx.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return ""
}

// WithWorkspace adds a workspace id to ctx.
func WithWorkspace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyWorkspace, id)
}

// Workspace extracts the workspace id from ctx.
func Workspace(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyWorkspace).(string); ok {
		return v
	}
	return ""
}
