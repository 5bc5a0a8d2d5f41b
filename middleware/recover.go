package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/statestore/observability"
	"github.com/tailored-agentic-units/statestore/store"
)

// PanicError is returned by Recover when a reducer, listener or inner
// middleware panics.
type PanicError struct {
	ActionType string
	Value      any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while dispatching %s: %v", e.ActionType, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recover converts panics raised further down the chain into *PanicError.
// The store's state is unchanged by a panicking reducer and the store remains
// usable afterwards. Panics are reported to the optional observer.
func Recover[S any](observers ...observability.Observer) store.Middleware[S] {
	observer := observability.Observer(observability.NoOpObserver{})
	if len(observers) > 0 {
		observer = observability.NewMultiObserver(observers...)
	}
	return func(store.API[S]) func(store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action any) (result any, err error) {
				defer func() {
					r := recover()
					if r == nil {
						return
					}
					perr := &PanicError{ActionType: actionType(action), Value: r}
					observer.OnEvent(context.Background(), observability.Event{
						Type:      EventPanic,
						Level:     observability.LevelError,
						Timestamp: time.Now(),
						Source:    "middleware.Recover",
						Data: map[string]any{
							"action_type": perr.ActionType,
							"panic":       fmt.Sprint(r),
						},
					})
					result, err = nil, perr
				}()
				return next(action)
			}
		}
	}
}
