// Package observable adapts a store to the observer pattern used by reactive
// libraries: an observer receives the current state as soon as it subscribes
// and again after every dispatch.
package observable

import (
	"fmt"

	"github.com/tailored-agentic-units/statestore/store"
)

// Source is the part of a store the adapter needs.
type Source[S any] interface {
	GetState() (S, error)
	Subscribe(listener store.Listener) (store.Unsubscribe, error)
}

// Observer receives state values.
type Observer[S any] interface {
	Next(state S)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc[S any] func(state S)

// Next calls f(state).
func (f ObserverFunc[S]) Next(state S) {
	f(state)
}

// Interop is implemented by values that can expose themselves as an
// Observable.
type Interop[S any] interface {
	Observable() *Observable[S]
}

// Observable is the minimal observable view of a Source.
type Observable[S any] struct {
	src Source[S]
}

// From returns an Observable over src.
func From[S any](src Source[S]) *Observable[S] {
	return &Observable[S]{src: src}
}

// Observable returns o, satisfying Interop.
func (o *Observable[S]) Observable() *Observable[S] {
	return o
}

// Subscribe pushes the current state to observer and then pushes the state
// again after every dispatch until the returned Subscription is cancelled.
func (o *Observable[S]) Subscribe(observer Observer[S]) (*Subscription, error) {
	if isNil(observer) {
		return nil, fmt.Errorf("%w: expected the observer to be an object", store.ErrInvalidArgument)
	}

	observeState := func() {
		state, err := o.src.GetState()
		if err != nil {
			return
		}
		observer.Next(state)
	}

	observeState()
	unsubscribe, err := o.src.Subscribe(observeState)
	if err != nil {
		return nil, err
	}
	return &Subscription{unsubscribe: unsubscribe}, nil
}

func isNil[S any](observer Observer[S]) bool {
	if observer == nil {
		return true
	}
	fn, ok := observer.(ObserverFunc[S])
	return ok && fn == nil
}

// Subscription cancels an observer's registration.
type Subscription struct {
	unsubscribe store.Unsubscribe
}

// Unsubscribe stops further notifications. Repeated calls are no-ops.
func (s *Subscription) Unsubscribe() error {
	return s.unsubscribe()
}
