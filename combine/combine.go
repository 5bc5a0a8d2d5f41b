// Package combine builds a keyed state tree out of independent slice
// reducers. Each key of the resulting map[string]any is owned by one
// reducer, which sees only its own slice of the state.
//
//	root, err := combine.Reducers(map[string]store.Reducer[any]{
//	    "count": combine.Slice(0, countReducer),
//	    "todos": combine.Slice([]string{}, todosReducer),
//	})
//
// Keys present in the state but absent from the reducer map are dropped on
// the next dispatch. Combined with Store.ReplaceReducer this carries every
// slice shared by the old and new reducers across a hot swap, and initializes
// the new ones from their defaults.
package combine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tailored-agentic-units/statestore/store"
)

// State is the tree produced by a combined reducer.
type State = map[string]any

// Reducers combines keyed slice reducers into a single root reducer.
// Reducers run in sorted key order; the first error stops the pass and is
// returned wrapped with its key, leaving the previous state in place.
func Reducers(reducers map[string]store.Reducer[any]) (store.Reducer[State], error) {
	if reducers == nil {
		return nil, fmt.Errorf("%w: expected a map of reducers", store.ErrInvalidArgument)
	}

	owned := make([]slice, 0, len(reducers))
	for _, key := range sortedKeys(reducers) {
		if reducers[key] == nil {
			return nil, fmt.Errorf("%w: no reducer provided for key %q", store.ErrInvalidArgument, key)
		}
		owned = append(owned, slice{key: key, reducer: reducers[key]})
	}

	return func(state State, action store.Action) (State, error) {
		next := make(State, len(owned))
		for _, sl := range owned {
			updated, err := sl.reducer(state[sl.key], action)
			if err != nil {
				return state, &SliceError{Key: sl.key, Action: action.Type, Err: err}
			}
			next[sl.key] = updated
		}
		return next, nil
	}, nil
}

// slice pairs a key with its reducer. The combined reducer owns its list of
// slices; later changes to the caller's map do not reach it.
type slice struct {
	key     string
	reducer store.Reducer[any]
}

func sortedKeys(reducers map[string]store.Reducer[any]) []string {
	return slices.Sorted(maps.Keys(reducers))
}

// Slice adapts a typed reducer to a combinable one. A missing slice is seeded
// with initial before the reducer runs, the way a default parameter would.
func Slice[T any](initial T, reducer store.Reducer[T]) store.Reducer[any] {
	if reducer == nil {
		return nil
	}
	return func(state any, action store.Action) (any, error) {
		current := initial
		if state != nil {
			typed, ok := state.(T)
			if !ok {
				return nil, fmt.Errorf("%w: slice holds %T, want %T", store.ErrInvalidArgument, state, initial)
			}
			current = typed
		}
		return reducer(current, action)
	}
}

// SliceError reports which slice reducer failed.
type SliceError struct {
	Key    string
	Action string
	Err    error
}

func (e *SliceError) Error() string {
	return fmt.Sprintf("reducer for key %q failed on %s: %v", e.Key, e.Action, e.Err)
}

func (e *SliceError) Unwrap() error {
	return e.Err
}
