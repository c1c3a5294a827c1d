// ABOUTME: Bridge connecting the client layer to the Bubble Tea message loop.
// ABOUTME: Provides tea.Cmd factories for data loading, suggestions, and stream consumption.
package tui

import (
	"context"

	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips"
	tea "github.com/charmbracelet/bubbletea"
)

// streamResult carries the terminal outcome of one analysis run.
type streamResult struct {
	text string
	err  error
}

// StreamHandle bridges a running analysis stream into the message loop. The
// consumer goroutine pushes updates on a channel; WaitForFragmentCmd pulls one
// message at a time and is re-armed by the model after each FragmentMsg.
type StreamHandle struct {
	updates chan client.Update
	result  chan streamResult
}

// StartAnalysis launches the stream consumer in its own goroutine and returns
// a handle for the message loop to pull from.
func StartAnalysis(ctx context.Context, stream *client.AnalysisStream, req fingertips.AnalysisRequest) *StreamHandle {
	h := &StreamHandle{
		updates: make(chan client.Update, 16),
		result:  make(chan streamResult, 1),
	}
	go func() {
		text, err := stream.Run(ctx, req, func(u client.Update) {
			h.updates <- u
		})
		close(h.updates)
		h.result <- streamResult{text: text, err: err}
	}()
	return h
}

// WaitForFragmentCmd returns a tea.Cmd that blocks for the next stream update.
// When the updates channel drains it reports the terminal result instead.
func WaitForFragmentCmd(h *StreamHandle) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-h.updates
		if !ok {
			res := <-h.result
			return StreamDoneMsg{Text: res.text, Err: res.err}
		}
		return FragmentMsg{Update: u}
	}
}

// LoadIndicatorsCmd fetches the indicator catalog.
func LoadIndicatorsCmd(ctx context.Context, data *client.DataClient) tea.Cmd {
	return func() tea.Msg {
		indicators, err := data.ListIndicators(ctx)
		return IndicatorsLoadedMsg{Indicators: indicators, Err: err}
	}
}

// LoadDataCmd fetches observation rows for an indicator at its latest period.
func LoadDataCmd(ctx context.Context, data *client.DataClient, indicatorID int) tea.Cmd {
	return func() tea.Msg {
		result, err := data.FetchData(ctx, indicatorID, "")
		return DataLoadedMsg{Result: result, Err: err}
	}
}

// FetchSuggestionsCmd asks for follow-up questions. Failures arrive as an
// empty suggestion list, never as an error message.
func FetchSuggestionsCmd(ctx context.Context, fetcher *client.SuggestionFetcher, req fingertips.SuggestRequest) tea.Cmd {
	return func() tea.Msg {
		return SuggestionsMsg{Suggestions: fetcher.Fetch(ctx, req)}
	}
}
