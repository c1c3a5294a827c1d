// ABOUTME: Tests for the top-level AppModel message handling and view switching.
package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips"
	tea "github.com/charmbracelet/bubbletea"
)

func newApp() AppModel {
	return NewAppModel(context.Background(),
		client.NewDataClient("http://127.0.0.1:1"),
		client.NewAnalysisStream("http://127.0.0.1:1"),
		client.NewSuggestionFetcher("http://127.0.0.1:1"))
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	app, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return app
}

func TestAppStartsOnPicker(t *testing.T) {
	m := newApp()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, IndicatorsLoadedMsg{Indicators: fingertips.Catalog()})

	view := m.View()
	if !strings.Contains(view, "Select an indicator") {
		t.Errorf("initial view is not the picker:\n%s", view)
	}
}

func TestAppEnterSelectsIndicator(t *testing.T) {
	m := newApp()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, IndicatorsLoadedMsg{Indicators: fingertips.Catalog()})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(AppModel)
	if m.view != viewDashboard {
		t.Fatalf("view = %v, want dashboard", m.view)
	}
	if cmd == nil {
		t.Error("selecting an indicator should trigger a data load command")
	}
	if m.indicator.ID != 94146 {
		t.Errorf("indicator = %d, want 94146", m.indicator.ID)
	}
}

func TestAppFragmentUpdatesAnswer(t *testing.T) {
	m := newApp()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.view = viewDashboard
	m.handle = &StreamHandle{updates: make(chan client.Update, 1), result: make(chan streamResult, 1)}
	m.streaming = true

	m = update(t, m, FragmentMsg{Update: client.Update{Text: "partial answer"}})
	if m.answer.Content() != "partial answer" {
		t.Errorf("answer content = %q", m.answer.Content())
	}

	m = update(t, m, StreamDoneMsg{Text: "full answer"})
	if m.streaming {
		t.Error("streaming flag should clear on StreamDoneMsg")
	}
	if m.answer.Content() != "full answer" {
		t.Errorf("final content = %q", m.answer.Content())
	}
}

func TestAppStreamFailureShowsError(t *testing.T) {
	m := newApp()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.view = viewDashboard
	m.streaming = true

	m = update(t, m, StreamDoneMsg{Err: context.Canceled})
	if m.streaming {
		t.Error("streaming flag should clear on failure")
	}
	if m.errMsg == "" {
		t.Error("failure should set the status line error")
	}
	if !strings.Contains(m.View(), "analysis failed") {
		t.Error("error message should appear in the view")
	}
}

func TestAppTooSmall(t *testing.T) {
	m := newApp()
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(m.View(), "too small") {
		t.Errorf("view = %q", m.View())
	}
}
