package collector

import "fmt"

// defaultAPICause is reported when the payload signals failure without a cause.
const defaultAPICause = "API request failed."

// NetworkError is a transport failure or a non-success HTTP status.
// StatusCode is zero when no response was received.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("bazaar request failed: %v", e.Err)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the response body was not the expected JSON document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("bazaar decode: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// APIError means the payload was well formed but reported success=false.
type APIError struct {
	Cause string
}

func (e *APIError) Error() string {
	if e.Cause == "" {
		return defaultAPICause
	}
	return e.Cause
}
