package rpcpool

import "errors"

var (
	// ErrAllEndpointsExhausted is returned when every endpoint in the
	// pool failed for one operation. It wraps the last observed error.
	ErrAllEndpointsExhausted = errors.New("all endpoints exhausted")

	// ErrNoEndpoints is returned when the pool was built without endpoints.
	ErrNoEndpoints = errors.New("no endpoints configured")
)
