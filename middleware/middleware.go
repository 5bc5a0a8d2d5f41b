// Package middleware provides stock store.Middleware implementations:
// thunks for deferred dispatch, slog action logging, observer events, and
// panic recovery.
//
// Install them with store.Apply. The first middleware passed is outermost:
//
//	s, err := store.New(reducer, store.WithEnhancer(store.Apply(
//	    middleware.Recover[State](),
//	    middleware.Logger[State](logger),
//	    middleware.Thunk[State](client),
//	)))
package middleware

import (
	"fmt"

	"github.com/tailored-agentic-units/statestore/store"
)

// actionType names an action for logs and events. Values that are not
// store.Action are reported by their Go type.
func actionType(action any) string {
	if a, ok := action.(store.Action); ok {
		return a.Type
	}
	return fmt.Sprintf("%T", action)
}
