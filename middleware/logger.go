package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/tailored-agentic-units/statestore/store"
)

// Logger logs every action that reaches it. Successful dispatches log at
// debug level; failures log at warn level with the error.
// A nil logger uses slog.Default().
func Logger[S any](logger *slog.Logger) store.Middleware[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(store.API[S]) func(store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				start := time.Now()
				result, err := next(action)

				attrs := []slog.Attr{
					slog.String("action_type", actionType(action)),
					slog.Duration("duration", time.Since(start)),
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
					logger.LogAttrs(context.Background(), slog.LevelWarn, "dispatch failed", attrs...)
					return result, err
				}
				logger.LogAttrs(context.Background(), slog.LevelDebug, "dispatch", attrs...)
				return result, nil
			}
		}
	}
}
