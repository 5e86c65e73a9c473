package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance with the specified level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}

// WithContext returns a logger carrying the request attributes stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	info, ok := RequestFromContext(ctx)
	if !ok {
		return l
	}

	return &Logger{Logger: l.Logger.With(
		"request_id", info.ID,
		"ip", info.IP,
		"ua", info.UserAgent,
	)}
}

type requestKey struct{}

// RequestInfo describes the client side of the current request.
type RequestInfo struct {
	ID        string
	IP        string
	UserAgent string
}

// ContextWithRequest stores request attributes in ctx.
func ContextWithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

// RequestFromContext returns request attributes previously stored in ctx.
func RequestFromContext(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestKey{}).(RequestInfo)
	return info, ok
}
