package store

import (
	"fmt"

	"github.com/tailored-agentic-units/statestore/compose"
)

// API is the capability set handed to each middleware. Dispatch is late
// bound: it always forwards to the fully composed chain, so a middleware that
// dispatches re-enters the chain from the outermost interceptor.
type API[S any] struct {
	GetState func() (S, error)
	Dispatch Dispatch
}

// Middleware receives the shared API once, at store construction, and returns
// an interceptor. The interceptor receives the next dispatch in the chain and
// returns the dispatch that replaces it.
//
//	func logging[S any](api store.API[S]) func(store.Dispatch) store.Dispatch {
//	    return func(next store.Dispatch) store.Dispatch {
//	        return func(action any) (any, error) {
//	            log.Printf("dispatching %v", action)
//	            return next(action)
//	        }
//	    }
//	}
type Middleware[S any] func(api API[S]) func(next Dispatch) Dispatch

// Apply returns an enhancer that installs middlewares around the store's
// dispatch. The first middleware is outermost: it sees every action first
// and the reducer's result last.
//
// Dispatching through the API while the middlewares are being set up returns
// ErrPrematureDispatch, since the chain does not exist yet.
func Apply[S any](middlewares ...Middleware[S]) Enhancer[S] {
	return func(create Creator[S]) Creator[S] {
		return func(reducer Reducer[S], opts ...Option[S]) (Store[S], error) {
			for i, mw := range middlewares {
				if mw == nil {
					return nil, fmt.Errorf("%w: middleware %d is nil", ErrInvalidArgument, i)
				}
			}

			st, err := create(reducer, opts...)
			if err != nil {
				return nil, err
			}

			dispatch := Dispatch(func(any) (any, error) {
				return nil, fmt.Errorf(
					"%w: dispatching while constructing middleware is not allowed; other middleware would not be applied to this dispatch",
					ErrPrematureDispatch,
				)
			})

			api := API[S]{
				GetState: st.GetState,
				Dispatch: func(action any) (any, error) {
					return dispatch(action)
				},
			}

			chain := make([]func(Dispatch) Dispatch, 0, len(middlewares))
			for i, mw := range middlewares {
				interceptor := mw(api)
				if interceptor == nil {
					return nil, fmt.Errorf("%w: middleware %d returned a nil interceptor", ErrInvalidArgument, i)
				}
				chain = append(chain, interceptor)
			}

			dispatch = compose.Compose(chain...)(st.Dispatch)

			return &enhanced[S]{Store: st, dispatch: dispatch}, nil
		}
	}
}

// enhanced replaces the dispatch entry point of the wrapped store and keeps
// every other method.
type enhanced[S any] struct {
	Store[S]
	dispatch Dispatch
}

func (s *enhanced[S]) Dispatch(action any) (any, error) {
	return s.dispatch(action)
}

// ReplaceReducer returns the enhanced handle so callers keep the middleware
// chain after a hot swap.
func (s *enhanced[S]) ReplaceReducer(next Reducer[S]) (Store[S], error) {
	if _, err := s.Store.ReplaceReducer(next); err != nil {
		return nil, err
	}
	return s, nil
}
