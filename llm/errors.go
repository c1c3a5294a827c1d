// ABOUTME: Error hierarchy for the upstream chat-completion client.
// ABOUTME: Distinguishes configuration problems, pre-stream API failures, and mid-stream failures.

package llm

// ClientError is the base error type for this package. Other error types
// embed it.
type ClientError struct {
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates the client cannot operate as configured
// (missing API key, no model).
type ConfigError struct {
	ClientError
}

// APIError is a failure reported by the provider before any streamed
// bytes were produced. StatusCode is the provider's HTTP status when known.
type APIError struct {
	ClientError
	StatusCode int
	Code       string
}

// StreamError is a failure that occurred after streaming had begun. The
// relay must surface it in-band: the transport-level status has already
// been sent as success.
type StreamError struct {
	ClientError
}
