// ABOUTME: Stream consumer for /analyze: pulls SSE frames, accumulates content
// ABOUTME: fragments, and re-renders the whole buffer to HTML on every fragment.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/SulemanSupreme/fingertips/fingertips"
	"github.com/SulemanSupreme/fingertips/llm/sse"
	"github.com/SulemanSupreme/fingertips/render"
	"github.com/oklog/ulid/v2"
)

// State is the lifecycle of one analysis request.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrBusy is returned when Run is called while a previous run is still
// streaming. Overlapping submissions are rejected rather than queued.
var ErrBusy = errors.New("analysis already streaming")

// doneSentinel is the literal frame payload that terminates a stream.
const doneSentinel = "[DONE]"

// Update carries the full accumulated state after each content fragment. The
// HTML is re-rendered from the whole buffer every time, so a consumer can
// replace its panel wholesale.
type Update struct {
	SessionID string
	Text      string
	HTML      string
}

// AnalysisStream submits analysis requests and consumes the resulting event
// stream. One stream is in flight at a time; a second Run returns ErrBusy.
type AnalysisStream struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	state State
}

// NewAnalysisStream creates a consumer against the given relay base URL.
// An empty URL resolves through the environment and compiled-in default.
func NewAnalysisStream(baseURL string) *AnalysisStream {
	return &AnalysisStream{
		baseURL: ResolveAIBaseURL(baseURL),
		// No overall timeout: the response body stays open for the whole
		// stream. Cancellation comes from the caller's context.
		httpClient: &http.Client{},
	}
}

// State reports the current lifecycle state.
func (a *AnalysisStream) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Run submits the request and pulls the stream to completion, invoking
// onUpdate after each appended fragment. It returns the final accumulated
// text. Exactly one terminal state is reached per run: Completed on the done
// sentinel or natural end of stream, Failed on transport errors, error
// statuses, or an in-band error payload. Cancelling ctx releases the
// connection and fails the run.
func (a *AnalysisStream) Run(ctx context.Context, req fingertips.AnalysisRequest, onUpdate func(Update)) (string, error) {
	a.mu.Lock()
	if a.state == StateStreaming {
		a.mu.Unlock()
		return "", ErrBusy
	}
	a.state = StateStreaming
	a.mu.Unlock()

	sessionID := ulid.Make().String()
	text, err := a.consume(ctx, sessionID, req, onUpdate)

	a.mu.Lock()
	if err != nil {
		a.state = StateFailed
	} else {
		a.state = StateCompleted
	}
	a.mu.Unlock()
	return text, err
}

func (a *AnalysisStream) consume(ctx context.Context, sessionID string, req fingertips.AnalysisRequest, onUpdate func(Update)) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submitting analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analysis request failed: %s", readErrorBody(resp.Body, resp.StatusCode))
	}

	var accumulated strings.Builder
	parser := sse.NewParser(resp.Body)
	for {
		evt, err := parser.Next()
		if err == io.EOF {
			// End of stream without the sentinel reads the same as the
			// sentinel.
			return accumulated.String(), nil
		}
		if err != nil {
			return accumulated.String(), fmt.Errorf("reading stream: %w", err)
		}

		if strings.TrimSpace(evt.Data) == doneSentinel {
			return accumulated.String(), nil
		}

		var payload struct {
			Content string `json:"content"`
			Error   string `json:"error"`
		}
		if jsonErr := json.Unmarshal([]byte(evt.Data), &payload); jsonErr != nil {
			// A line that does not parse is assumed to be a chunk-boundary
			// artifact and skipped.
			continue
		}
		if payload.Error != "" {
			return accumulated.String(), fmt.Errorf("analysis failed: %s", payload.Error)
		}
		if payload.Content == "" {
			continue
		}

		accumulated.WriteString(payload.Content)
		if onUpdate != nil {
			text := accumulated.String()
			onUpdate(Update{
				SessionID: sessionID,
				Text:      text,
				HTML:      render.Markdown(text),
			})
		}
	}
}

// readErrorBody extracts the error message from a JSON error response,
// falling back to the HTTP status.
func readErrorBody(r io.Reader, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err == nil && json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(status)
}
