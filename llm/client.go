// ABOUTME: Client interface for chat-completion providers plus shared helpers.
// ABOUTME: The relay depends on this interface; tests substitute fakes for the OpenAI-backed implementation.

package llm

import "context"

// Client is the upstream model provider seen by the relay. Complete performs
// a one-shot completion; Stream yields incremental events on a channel that
// closes after exactly one terminal event.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Stream(ctx context.Context, req Request) (<-chan StreamEvent, error)
	Close() error
}
