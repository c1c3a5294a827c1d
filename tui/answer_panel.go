// ABOUTME: Scrollable answer panel backed by the bubbles viewport, replaced
// ABOUTME: wholesale with the accumulated analysis text on every fragment.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AnswerPanelModel shows the streaming analysis answer.
type AnswerPanelModel struct {
	viewport viewport.Model
	content  string
	focused  bool
	width    int
	height   int
}

// NewAnswerPanelModel creates an empty answer panel.
func NewAnswerPanelModel() AnswerPanelModel {
	return AnswerPanelModel{viewport: viewport.New(80, 10)}
}

// SetContent replaces the panel text and follows the tail while streaming.
func (m *AnswerPanelModel) SetContent(text string) {
	m.content = text
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(text)
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// Content returns the current panel text.
func (m AnswerPanelModel) Content() string {
	return m.content
}

// Clear empties the panel for a new request.
func (m *AnswerPanelModel) Clear() {
	m.content = ""
	m.viewport.SetContent("")
	m.viewport.GotoTop()
}

// SetFocused sets whether scroll keys reach the viewport.
func (m *AnswerPanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize sets the available dimensions.
func (m *AnswerPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	vpWidth := w - 2
	vpHeight := h - 3
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
}

// Update forwards scroll keys to the viewport when focused.
func (m AnswerPanelModel) Update(msg tea.KeyMsg) (AnswerPanelModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the bordered panel with a title line.
func (m AnswerPanelModel) View() string {
	title := TitleStyle.Render("Analysis")
	if m.focused {
		title += DimStyle.Render(" (scroll: up/down)")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if m.content == "" {
		b.WriteString(DimStyle.Render("Ask a question about the data below."))
	} else {
		b.WriteString(m.viewport.View())
	}
	return BorderStyle.Width(m.width - 2).Render(b.String())
}
