package llm

import "errors"

var (
	// ErrNotConfigured indicates no API key is set.
	ErrNotConfigured = errors.New("llm api key not configured")

	// ErrUnavailable indicates the API could not be reached or the circuit
	// breaker is open.
	ErrUnavailable = errors.New("llm api unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
