package middleware

import "github.com/tailored-agentic-units/statestore/store"

// ThunkFunc is a dispatchable function. It receives the full middleware
// chain's dispatch, the store's GetState and the extra argument given to
// Thunk, and its result becomes the result of Dispatch.
type ThunkFunc[S any] func(dispatch store.Dispatch, getState func() (S, error), extra any) (any, error)

// Thunk lets callers dispatch ThunkFunc values. Every other value is passed
// on unchanged.
func Thunk[S any](extra any) store.Middleware[S] {
	return func(api store.API[S]) func(store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				switch fn := action.(type) {
				case ThunkFunc[S]:
					return fn(api.Dispatch, api.GetState, extra)
				case func(store.Dispatch, func() (S, error), any) (any, error):
					return fn(api.Dispatch, api.GetState, extra)
				}
				return next(action)
			}
		}
	}
}
