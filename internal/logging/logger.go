// Package logging defines a minimal structured-logging interface for the
// service. The variadic args are key-value pairs, e.g.
//
//	log.Info(ctx, "starting server", "addr", addr)
package logging

import "context"

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
