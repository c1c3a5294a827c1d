// ABOUTME: Core data model types for the upstream chat-completion client.
// ABOUTME: Defines Message, Request, Response, and the streaming event union consumed by the relay.

package llm

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system role message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage creates a user role message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// Request is the unified input for both Complete and Stream.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// Float64Ptr returns a pointer to a float64 value.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to an int value.
func IntPtr(v int) *int { return &v }

// Usage tracks token consumption for a single call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the unified output of a Complete call, and arrives on the
// terminal event of a stream.
type Response struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
	Usage        Usage  `json:"usage"`
}

// StreamEventType discriminates streaming events.
type StreamEventType string

const (
	// StreamTextDelta carries one incremental text fragment.
	StreamTextDelta StreamEventType = "text_delta"
	// StreamFinish is the terminal event of a successful stream.
	StreamFinish StreamEventType = "finish"
	// StreamErrorEvt is the terminal event of a failed stream.
	StreamErrorEvt StreamEventType = "error"
)

// StreamEvent is one event in a streaming response. Events arrive in
// generation order; exactly one terminal event (finish or error) closes
// the channel.
type StreamEvent struct {
	Type     StreamEventType
	Delta    string
	Response *Response
	Err      error
}
