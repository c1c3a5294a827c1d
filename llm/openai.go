// ABOUTME: OpenAI Chat Completions client with base URL support for compatible providers.
// ABOUTME: Implements the Client interface using the official SDK's streaming and accumulator support.

package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// OpenAIClient implements Client using the OpenAI Chat Completions API.
// A custom base URL enables OpenAI-compatible providers (OpenRouter,
// Cerebras, local gateways).
type OpenAIClient struct {
	client openai.Client
	model  string
}

// OpenAIOption is a functional option for configuring an OpenAIClient.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	baseURL string
	model   string
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithModel sets the default model used when a Request leaves Model empty.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) { c.model = model }
}

// NewOpenAIClient creates a Chat Completions client. The API key is required;
// a ConfigError is returned when it is empty.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, &ConfigError{ClientError{Message: "missing API key (set OPENAI_API_KEY)"}}
	}

	cfg := openAIConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		model:  cfg.model,
	}, nil
}

// Close releases resources held by the client.
func (c *OpenAIClient) Close() error { return nil }

// Complete sends a one-shot completion request and returns the full response.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	params := c.buildParams(req)
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return convertResponse(resp), nil
}

// Stream sends a streaming request and returns a channel of events. Each text
// fragment is emitted in arrival order; the channel closes after a single
// terminal finish or error event.
func (c *OpenAIClient) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	params := c.buildParams(req)
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, wrapAPIError(err)
	}

	ch := make(chan StreamEvent)
	go func() {
		defer close(ch)
		defer stream.Close()

		// Every send races context cancellation: once the consumer stops
		// receiving, the goroutine must still exit and close the channel.
		send := func(evt StreamEvent) bool {
			select {
			case ch <- evt:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var acc openai.ChatCompletionAccumulator
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !send(StreamEvent{
					Type:  StreamTextDelta,
					Delta: chunk.Choices[0].Delta.Content,
				}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(StreamEvent{
				Type: StreamErrorEvt,
				Err:  &StreamError{ClientError{Message: "upstream stream failed", Cause: err}},
			})
			return
		}

		send(StreamEvent{
			Type:     StreamFinish,
			Response: convertResponse(&acc.ChatCompletion),
		})
	}()

	return ch, nil
}

// buildParams translates a unified Request into SDK parameters.
func (c *OpenAIClient) buildParams(req Request) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{Model: model}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*req.MaxTokens))
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	params.Messages = messages

	return params
}

// convertResponse maps an SDK completion to the unified Response.
func convertResponse(resp *openai.ChatCompletion) *Response {
	out := &Response{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.FinishReason = string(resp.Choices[0].FinishReason)
	}
	return out
}

// wrapAPIError classifies an SDK error as a pre-stream APIError, preserving
// the provider status code when available.
func wrapAPIError(err error) error {
	apiErr := &APIError{ClientError: ClientError{Message: "upstream request failed", Cause: err}}
	var sdkErr *openai.Error
	if errors.As(err, &sdkErr) {
		apiErr.StatusCode = sdkErr.StatusCode
		apiErr.Code = sdkErr.Code
		apiErr.Message = fmt.Sprintf("upstream request failed (status %d)", sdkErr.StatusCode)
	}
	return apiErr
}

// Compile-time interface assertion.
var _ Client = (*OpenAIClient)(nil)
