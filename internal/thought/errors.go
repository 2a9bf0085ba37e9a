package thought

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAPIKey is returned by New when the API key is empty.
	ErrNoAPIKey = errors.New("thought: API key is required")
	// ErrTransport wraps network failures (DNS, connection, timeouts).
	ErrTransport = errors.New("thought: transport error")
	// ErrStatus is matched by every *StatusError.
	ErrStatus = errors.New("thought: unexpected status")
	// ErrMalformed wraps responses that are not JSON or do not match the
	// expected shape.
	ErrMalformed = errors.New("thought: malformed response")
	// ErrExhausted is returned once every attempt has failed. It wraps the
	// last attempt's error as well.
	ErrExhausted = errors.New("thought: retries exhausted")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	// Body is the start of the response body, for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("thought: API response status %d", e.Code)
	}
	return fmt.Sprintf("thought: API response status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

type schemaValidationError struct {
	issues []string
}

func (e schemaValidationError) Error() string {
	if len(e.issues) == 0 {
		return "response failed schema validation"
	}
	return strings.Join(e.issues, "; ")
}
