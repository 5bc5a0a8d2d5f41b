// Package store implements a single-writer, synchronous state container.
//
// A Store holds one state value that changes only when an Action is
// dispatched through its Reducer. Listeners registered with Subscribe run
// after every dispatch, in registration order, on the dispatching goroutine.
//
//	counter := store.Pure(func(n int, a store.Action) int {
//	    if a.Type == "INC" {
//	        return n + 1
//	    }
//	    return n
//	})
//
//	s, err := store.New(counter)
//	unsubscribe, err := s.Subscribe(func() { ... })
//	_, err = s.Dispatch(store.Action{Type: "INC"})
//	n, err := s.GetState() // 1
//
// Reducers must not call back into the store: GetState, Subscribe,
// unsubscribe and Dispatch return ErrIllegalReentrancy while a reducer is
// running. Listeners may dispatch; subscriptions added or removed during a
// notification pass take effect on the next dispatch.
//
// A Store performs no locking and starts no goroutines. Confine each store to
// one goroutine or synchronize access externally.
//
// Middleware is installed with Apply through WithEnhancer.
package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/statestore/observability"
)

// Reducer computes the next state from the current state and an action.
// Reducers should be pure; returning an error leaves the state unchanged.
type Reducer[S any] func(state S, action Action) (S, error)

// Pure adapts a reducer that cannot fail.
func Pure[S any](fn func(state S, action Action) S) Reducer[S] {
	if fn == nil {
		return nil
	}
	return func(state S, action Action) (S, error) {
		return fn(state, action), nil
	}
}

// Listener is notified after every successful dispatch.
type Listener func()

// Unsubscribe removes the subscription that returned it. Calls after the
// first successful one are no-ops.
type Unsubscribe func() error

// Dispatch is the entry point for actions. The raw store only accepts Action
// values; middleware may accept anything and return anything.
type Dispatch func(action any) (any, error)

// Store is the public surface of a state container.
type Store[S any] interface {
	// ID returns the unique identifier assigned at creation.
	ID() string
	// GetState returns the current state.
	GetState() (S, error)
	// Dispatch runs the reducer with action and notifies listeners.
	Dispatch(action any) (any, error)
	// Subscribe registers listener and returns its revocation handle.
	Subscribe(listener Listener) (Unsubscribe, error)
	// ReplaceReducer swaps the reducer and returns the same store.
	ReplaceReducer(next Reducer[S]) (Store[S], error)
}

// Creator builds a store. New is the base Creator; enhancers wrap it.
type Creator[S any] func(reducer Reducer[S], opts ...Option[S]) (Store[S], error)

// Enhancer wraps a Creator to add capabilities to the stores it builds.
type Enhancer[S any] func(next Creator[S]) Creator[S]

type subscription struct {
	listener Listener
}

type engine[S any] struct {
	id       string
	name     string
	reducer  Reducer[S]
	state    S
	observer observability.Observer

	// current is the snapshot used by the latest notification pass; next
	// receives subscribe/unsubscribe mutations. While aliased is true they
	// share a backing array and next must be cloned before mutation.
	current []*subscription
	next    []*subscription
	aliased bool

	dispatching bool
	dispatches  uint64
}

// New creates a store from reducer and dispatches ActionInit so every
// reducer branch produces its initial state.
//
// With WithEnhancer, construction is delegated to the enhancer, which receives
// New as the creator to wrap. Passing more than one enhancer is rejected
// before any enhancer runs.
func New[S any](reducer Reducer[S], opts ...Option[S]) (Store[S], error) {
	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}

	switch len(o.enhancers) {
	case 0:
	case 1:
		enhancer := o.enhancers[0]
		if enhancer == nil {
			return nil, fmt.Errorf("%w: expected the enhancer to be a function", ErrInvalidArgument)
		}
		return enhancer(New[S])(reducer, o.forward())
	default:
		return nil, fmt.Errorf(
			"%w: several store enhancers passed to New; compose them into a single enhancer",
			ErrInvalidArgument,
		)
	}

	if reducer == nil {
		return nil, fmt.Errorf("%w: expected the reducer to be a function", ErrInvalidArgument)
	}

	e := &engine[S]{
		id:       uuid.Must(uuid.NewV7()).String(),
		name:     o.name,
		reducer:  reducer,
		state:    o.preloaded,
		observer: o.observer,
		aliased:  true,
	}

	if _, err := e.Dispatch(Action{Type: ActionInit}); err != nil {
		return nil, fmt.Errorf("initialize store %s: %w", e.name, err)
	}

	e.emit(EventCreate, observability.LevelInfo, "store.New", map[string]any{
		"preloaded": o.hasPreloaded,
	})

	return e, nil
}

func (e *engine[S]) ID() string {
	return e.id
}

func (e *engine[S]) GetState() (S, error) {
	if e.dispatching {
		var zero S
		return zero, fmt.Errorf(
			"%w: GetState may not be called while the reducer is executing; use the state argument passed to the reducer",
			ErrIllegalReentrancy,
		)
	}
	return e.state, nil
}

func (e *engine[S]) Subscribe(listener Listener) (Unsubscribe, error) {
	if listener == nil {
		return nil, fmt.Errorf("%w: expected the listener to be a function", ErrInvalidArgument)
	}
	if e.dispatching {
		return nil, fmt.Errorf(
			"%w: Subscribe may not be called while the reducer is executing",
			ErrIllegalReentrancy,
		)
	}

	sub := &subscription{listener: listener}
	e.ensureCanMutateNext()
	e.next = append(e.next, sub)

	e.emit(EventSubscribe, observability.LevelVerbose, "store.Subscribe", map[string]any{
		"listeners": len(e.next),
	})

	subscribed := true
	return func() error {
		if !subscribed {
			return nil
		}
		if e.dispatching {
			return fmt.Errorf(
				"%w: unsubscribe may not be called while the reducer is executing",
				ErrIllegalReentrancy,
			)
		}
		subscribed = false

		e.ensureCanMutateNext()
		if i := slices.Index(e.next, sub); i >= 0 {
			e.next = slices.Delete(e.next, i, i+1)
		}

		e.emit(EventUnsubscribe, observability.LevelVerbose, "store.Unsubscribe", map[string]any{
			"listeners": len(e.next),
		})
		return nil
	}, nil
}

func (e *engine[S]) Dispatch(action any) (any, error) {
	act, err := asAction(action)
	if err != nil {
		return nil, err
	}
	if e.dispatching {
		return nil, fmt.Errorf("%w: reducers may not dispatch actions", ErrIllegalReentrancy)
	}

	start := time.Now()
	if err := e.reduce(act); err != nil {
		e.emit(EventReducerError, observability.LevelWarning, "store.Dispatch", map[string]any{
			"action_type": act.Type,
			"error":       err.Error(),
		})
		return nil, err
	}

	listeners := e.next
	e.current = listeners
	e.aliased = true
	e.dispatches++

	e.emit(EventDispatch, observability.LevelVerbose, "store.Dispatch", map[string]any{
		"action_type": act.Type,
		"dispatches":  e.dispatches,
		"listeners":   len(listeners),
		"duration":    time.Since(start),
	})

	for _, sub := range listeners {
		sub.listener()
	}

	return action, nil
}

func (e *engine[S]) ReplaceReducer(next Reducer[S]) (Store[S], error) {
	if next == nil {
		return nil, fmt.Errorf("%w: expected the next reducer to be a function", ErrInvalidArgument)
	}
	if e.dispatching {
		return nil, fmt.Errorf(
			"%w: ReplaceReducer may not be called while the reducer is executing",
			ErrIllegalReentrancy,
		)
	}

	e.reducer = next
	e.emit(EventReplace, observability.LevelInfo, "store.ReplaceReducer", nil)

	if _, err := e.Dispatch(Action{Type: ActionReplace}); err != nil {
		return nil, err
	}
	return e, nil
}

// reduce runs the reducer with the dispatching flag raised. The flag is
// lowered even if the reducer panics; the state is committed only when the
// reducer returns without error.
func (e *engine[S]) reduce(action Action) error {
	e.dispatching = true
	defer func() { e.dispatching = false }()

	next, err := e.reducer(e.state, action)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

func (e *engine[S]) ensureCanMutateNext() {
	if e.aliased {
		e.next = slices.Clone(e.current)
		e.aliased = false
	}
}

func (e *engine[S]) emit(eventType observability.EventType, level observability.Level, source string, data map[string]any) {
	if _, silent := e.observer.(observability.NoOpObserver); silent {
		return
	}
	if data == nil {
		data = make(map[string]any, 2)
	}
	data["store_id"] = e.id
	data["store"] = e.name

	e.observer.OnEvent(context.Background(), observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
