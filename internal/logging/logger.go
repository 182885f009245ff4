// Package logging defines the structured logger handed to services and adapters.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "ideas generated", "user_id", userID, "web_search", true)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for degraded-but-working paths, e.g. web search disabled.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
