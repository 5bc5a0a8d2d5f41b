package devtools

import "errors"

var (
	// ErrNoSnapshot is returned before the inspector middleware is installed.
	ErrNoSnapshot = errors.New("no state snapshot captured")
	// ErrEncodeState is returned when the state cannot be represented as JSON.
	ErrEncodeState = errors.New("state is not JSON encodable")
	// ErrMalformedResponse is returned by Client for responses missing
	// expected fields.
	ErrMalformedResponse = errors.New("malformed inspector response")
)
