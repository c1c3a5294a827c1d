// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Each type wraps a client-layer event for the tea.Msg interface.
package tui

import (
	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips"
)

// IndicatorsLoadedMsg carries the indicator catalog for the picker.
type IndicatorsLoadedMsg struct {
	Indicators []fingertips.Indicator
	Err        error
}

// DataLoadedMsg carries observation rows for the selected indicator.
type DataLoadedMsg struct {
	Result *client.DataResult
	Err    error
}

// FragmentMsg carries one streamed analysis update; the Update holds the full
// accumulated text so the answer panel replaces its content wholesale.
type FragmentMsg struct {
	Update client.Update
}

// StreamDoneMsg signals that the analysis stream reached a terminal state.
type StreamDoneMsg struct {
	Text string
	Err  error
}

// SuggestionsMsg carries follow-up question suggestions for the shortcut row.
type SuggestionsMsg struct {
	Suggestions []string
}
