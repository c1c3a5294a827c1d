// ABOUTME: Data panel rendering the selected indicator's area rows as a small
// ABOUTME: ranked table with the extremes highlighted.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips"
)

// maxTableRows caps how many areas the panel shows.
const maxTableRows = 12

// DataPanelModel shows the observation rows for the selected indicator.
type DataPanelModel struct {
	result *client.DataResult
	width  int
}

// NewDataPanelModel creates an empty data panel.
func NewDataPanelModel() DataPanelModel {
	return DataPanelModel{}
}

// SetResult replaces the displayed data.
func (m *DataPanelModel) SetResult(result *client.DataResult) {
	m.result = result
}

// SetWidth sets the available render width.
func (m *DataPanelModel) SetWidth(w int) {
	m.width = w
}

// Result returns the current data, or nil before the first load.
func (m DataPanelModel) Result() *client.DataResult {
	return m.result
}

// View renders the table: area name, value, patient count. Rows arrive sorted
// by value descending from the server; the best and worst valued rows are
// color-coded.
func (m DataPanelModel) View() string {
	var b strings.Builder

	if m.result == nil {
		b.WriteString(DimStyle.Render("Loading data..."))
		return b.String()
	}

	b.WriteString(TitleStyle.Render(m.result.Indicator.Name))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(fmt.Sprintf("%s, %s, %d areas",
		m.result.AreaType, m.result.TimePeriod, m.result.Count)))
	b.WriteString("\n\n")

	rows := m.result.Data
	if len(rows) == 0 {
		b.WriteString(DimStyle.Render("No data for this selection."))
		return b.String()
	}

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-34s %8s %10s", "Area", "Value", "Patients")))
	b.WriteString("\n")

	worst := worstValue(rows)
	shown := rows
	if len(shown) > maxTableRows {
		shown = shown[:maxTableRows]
	}
	for i, row := range shown {
		line := fmt.Sprintf("%-34s %8s %10s",
			clip(row.AreaName, 34), formatValue(row.Value), formatCount(row.Denominator))
		switch {
		case i == 0 && row.Value != nil:
			b.WriteString(BestStyle.Render(line))
		case row.Value != nil && *row.Value == worst:
			b.WriteString(WorstStyle.Render(line))
		default:
			b.WriteString(SelectedStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(rows) > maxTableRows {
		b.WriteString(DimStyle.Render(fmt.Sprintf("... and %d more", len(rows)-maxTableRows)))
		b.WriteString("\n")
	}
	return b.String()
}

func worstValue(rows []fingertips.DataRow) float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Value != nil {
			values = append(values, *row.Value)
		}
	}
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	return values[0]
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatCount(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
