// ABOUTME: Indicator picker panel: a cursor-driven list over the catalog.
package tui

import (
	"fmt"
	"strings"

	"github.com/SulemanSupreme/fingertips/fingertips"
	tea "github.com/charmbracelet/bubbletea"
)

// PickerModel lets the user choose an indicator from the catalog.
type PickerModel struct {
	indicators []fingertips.Indicator
	cursor     int
	width      int
}

// NewPickerModel creates an empty picker; indicators arrive via SetIndicators
// once the catalog loads.
func NewPickerModel() PickerModel {
	return PickerModel{}
}

// SetIndicators replaces the list and clamps the cursor.
func (m *PickerModel) SetIndicators(indicators []fingertips.Indicator) {
	m.indicators = indicators
	if m.cursor >= len(indicators) {
		m.cursor = 0
	}
}

// SetWidth sets the available render width.
func (m *PickerModel) SetWidth(w int) {
	m.width = w
}

// Selected returns the indicator under the cursor, or false when empty.
func (m PickerModel) Selected() (fingertips.Indicator, bool) {
	if len(m.indicators) == 0 {
		return fingertips.Indicator{}, false
	}
	return m.indicators[m.cursor], true
}

// Update moves the cursor on key input.
func (m PickerModel) Update(msg tea.KeyMsg) PickerModel {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.indicators)-1 {
			m.cursor++
		}
	}
	return m
}

// View renders the list with the cursor row highlighted.
func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Select an indicator"))
	b.WriteString("\n\n")

	if len(m.indicators) == 0 {
		b.WriteString(DimStyle.Render("Loading indicators..."))
		return b.String()
	}

	for i, ind := range m.indicators {
		line := fmt.Sprintf("%d  %s", ind.ID, ind.Name)
		if i == m.cursor {
			b.WriteString(CursorStyle.Render("> " + line))
			b.WriteString("\n")
			b.WriteString(DimStyle.Render("    " + ind.Description))
		} else {
			b.WriteString(SelectedStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("up/down move, enter select, q quit"))
	return b.String()
}
