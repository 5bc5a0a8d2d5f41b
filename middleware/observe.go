package middleware

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/statestore/observability"
	"github.com/tailored-agentic-units/statestore/store"
)

// Middleware event types.
const (
	EventAction      observability.EventType = "middleware.action"
	EventActionError observability.EventType = "middleware.action.error"
	EventPanic       observability.EventType = "middleware.panic"
)

// Observe emits an event to observer for every action that reaches it.
// A nil observer disables the middleware.
func Observe[S any](observer observability.Observer) store.Middleware[S] {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return func(store.API[S]) func(store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				start := time.Now()
				result, err := next(action)

				event := observability.Event{
					Type:      EventAction,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    "middleware.Observe",
					Data: map[string]any{
						"action_type": actionType(action),
						"duration":    time.Since(start),
					},
				}
				if err != nil {
					event.Type = EventActionError
					event.Level = observability.LevelWarning
					event.Data["error"] = err.Error()
				}
				observer.OnEvent(context.Background(), event)

				return result, err
			}
		}
	}
}
