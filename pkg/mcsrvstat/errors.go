package mcsrvstat

import "errors"

// Failure classes returned by the client. Match them with errors.Is; the
// wrapped chain keeps the underlying cause (including context errors).
var (
	// ErrConnectivity means the HTTP exchange could not be completed.
	ErrConnectivity = errors.New("mcsrvstat: connectivity error")
	// ErrServiceUnavailable means strict status checking saw a non-200 response.
	ErrServiceUnavailable = errors.New("mcsrvstat: service unavailable")
	// ErrInvalidArgument means a caller-supplied parameter was rejected before any request.
	ErrInvalidArgument = errors.New("mcsrvstat: invalid argument")
	// ErrLookupFailure means the status document lacks a value the operation requires.
	ErrLookupFailure = errors.New("mcsrvstat: lookup failure")
)
