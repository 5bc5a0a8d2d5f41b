// Package bind wraps action creators so that calling them dispatches the
// action they build. It is a convenience layer over store.Dispatch: calling
// a bound creator is the same as dispatching the creator's result yourself.
//
//	actions, err := bind.Map(map[string]bind.Creator{
//	    "increment": func(...any) any { return store.Action{Type: "INC"} },
//	}, s.Dispatch)
//	actions["increment"]()
package bind

import (
	"fmt"

	"github.com/tailored-agentic-units/statestore/store"
)

// Creator builds something dispatchable. Without middleware that must be a
// store.Action; middleware such as thunks may accept other values.
type Creator func(args ...any) any

// Bound builds an action and dispatches it, returning dispatch's result.
type Bound func(args ...any) (any, error)

// One binds a single creator to dispatch.
func One(creator Creator, dispatch store.Dispatch) (Bound, error) {
	if creator == nil {
		return nil, fmt.Errorf("%w: expected an action creator", store.ErrInvalidArgument)
	}
	if dispatch == nil {
		return nil, fmt.Errorf("%w: expected a dispatch function", store.ErrInvalidArgument)
	}
	return bind(creator, dispatch), nil
}

// Map binds every creator in creators to dispatch and returns a map with the
// same keys. Nil entries are skipped rather than rejected.
func Map(creators map[string]Creator, dispatch store.Dispatch) (map[string]Bound, error) {
	if creators == nil {
		return nil, fmt.Errorf("%w: expected a map of action creators, got nil", store.ErrInvalidArgument)
	}
	if dispatch == nil {
		return nil, fmt.Errorf("%w: expected a dispatch function", store.ErrInvalidArgument)
	}

	bound := make(map[string]Bound, len(creators))
	for key, creator := range creators {
		if creator == nil {
			continue
		}
		bound[key] = bind(creator, dispatch)
	}
	return bound, nil
}

// Typed binds a creator taking a single typed argument.
func Typed[A any](creator func(A) store.Action, dispatch store.Dispatch) (func(A) (any, error), error) {
	if creator == nil {
		return nil, fmt.Errorf("%w: expected an action creator", store.ErrInvalidArgument)
	}
	if dispatch == nil {
		return nil, fmt.Errorf("%w: expected a dispatch function", store.ErrInvalidArgument)
	}
	return func(arg A) (any, error) {
		return dispatch(creator(arg))
	}, nil
}

func bind(creator Creator, dispatch store.Dispatch) Bound {
	return func(args ...any) (any, error) {
		return dispatch(creator(args...))
	}
}
