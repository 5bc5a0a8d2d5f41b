package store

import "errors"

// Sentinel errors for store misuse. Every error returned by this package for
// a rejected call wraps exactly one of them, so callers can branch with
// errors.Is. Dispatch returns reducer errors unwrapped.
var (
	// ErrInvalidArgument reports a nil reducer, listener, enhancer or
	// middleware, a malformed action, or conflicting construction options.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalReentrancy reports a store call made while a reducer is
	// executing.
	ErrIllegalReentrancy = errors.New("illegal reentrancy")

	// ErrPrematureDispatch reports a middleware dispatching while the
	// middleware chain is still being constructed.
	ErrPrematureDispatch = errors.New("premature dispatch")
)
