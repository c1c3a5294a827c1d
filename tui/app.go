// ABOUTME: Top-level Bubble Tea AppModel for the terminal dashboard: indicator
// ABOUTME: picker, data table, query input, and streaming answer panel.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// view is the screen the app currently shows.
type view int

const (
	viewPicker view = iota
	viewDashboard
)

// FocusTarget indicates which dashboard widget has keyboard focus.
type FocusTarget int

const (
	FocusQuery FocusTarget = iota
	FocusAnswer
)

// AppModel is the top-level Bubble Tea model composing all dashboard panels.
type AppModel struct {
	picker  PickerModel
	data    DataPanelModel
	answer  AnswerPanelModel
	query   textinput.Model
	spinner spinner.Model

	dataClient *client.DataClient
	stream     *client.AnalysisStream
	suggester  *client.SuggestionFetcher
	ctx        context.Context

	view         view
	focus        FocusTarget
	indicator    fingertips.Indicator
	handle       *StreamHandle
	streamCancel context.CancelFunc
	suggestions  []string
	streaming    bool
	errMsg       string
	width        int
	height       int
}

// NewAppModel creates the dashboard model. The clients point at the relay and
// data server; ctx cancels all in-flight work when the program exits.
func NewAppModel(ctx context.Context, dataClient *client.DataClient, stream *client.AnalysisStream, suggester *client.SuggestionFetcher) AppModel {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask about this data..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle

	return AppModel{
		picker:     NewPickerModel(),
		data:       NewDataPanelModel(),
		answer:     NewAnswerPanelModel(),
		query:      ti,
		spinner:    sp,
		dataClient: dataClient,
		stream:     stream,
		suggester:  suggester,
		ctx:        ctx,
	}
}

// Init implements tea.Model: load the catalog and start the spinner.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		LoadIndicatorsCmd(m.ctx, m.dataClient),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case IndicatorsLoadedMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("loading indicators: %v", msg.Err)
			return m, nil
		}
		m.picker.SetIndicators(msg.Indicators)
		return m, nil

	case DataLoadedMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("loading data: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.data.SetResult(msg.Result)
		return m, FetchSuggestionsCmd(m.ctx, m.suggester, fingertips.SuggestRequest{
			IndicatorID: m.indicator.ID,
			TimePeriod:  msg.Result.TimePeriod,
		})

	case SuggestionsMsg:
		m.suggestions = msg.Suggestions
		return m, nil

	case FragmentMsg:
		m.answer.SetContent(msg.Update.Text)
		return m, WaitForFragmentCmd(m.handle)

	case StreamDoneMsg:
		m.streaming = false
		m.handle = nil
		if m.streamCancel != nil {
			m.streamCancel()
			m.streamCancel = nil
		}
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("analysis failed: %v", msg.Err)
		} else {
			m.answer.SetContent(msg.Text)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 60 || m.height < 16 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 60x16.", m.width, m.height)
	}

	if m.view == viewPicker {
		m.picker.SetWidth(m.width)
		return m.picker.View()
	}
	return m.dashboardView()
}

func (m AppModel) dashboardView() string {
	answerHeight := m.height * 40 / 100
	if answerHeight < 6 {
		answerHeight = 6
	}
	m.answer.SetSize(m.width, answerHeight)
	m.data.SetWidth(m.width)

	var b strings.Builder
	b.WriteString(m.answer.View())
	b.WriteString("\n")
	b.WriteString(m.data.View())
	b.WriteString("\n")

	if len(m.suggestions) > 0 && !m.streaming {
		for i, s := range m.suggestions {
			b.WriteString(SuggestionStyle.Render(fmt.Sprintf("[%d] %s", i+1, s)))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.query.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m AppModel) statusLine() string {
	if m.errMsg != "" {
		return ErrorStyle.Render(m.errMsg)
	}
	if m.streaming {
		return StatusBarStyle.Render(m.spinner.View() + " streaming... (esc cancels)")
	}
	return StatusBarStyle.Render("enter ask, 1-3 suggestions, tab scroll, b back, ctrl+c quit")
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view == viewPicker {
		return m.handlePickerKey(msg)
	}
	return m.handleDashboardKey(msg)
}

func (m AppModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		ind, ok := m.picker.Selected()
		if !ok {
			return m, nil
		}
		m.indicator = ind
		m.view = viewDashboard
		m.data.SetResult(nil)
		m.answer.Clear()
		m.suggestions = nil
		return m, LoadDataCmd(m.ctx, m.dataClient, ind.ID)
	default:
		m.picker = m.picker.Update(msg)
		return m, nil
	}
}

func (m AppModel) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.streaming && m.streamCancel != nil {
			// Cancelling the context tears down the connection; the run then
			// reports through StreamDoneMsg.
			m.streamCancel()
			return m, nil
		}
		return m, nil
	case "b":
		if !m.streaming && !m.query.Focused() {
			m.view = viewPicker
			return m, nil
		}
	case "tab":
		if m.focus == FocusQuery {
			m.focus = FocusAnswer
			m.query.Blur()
			m.answer.SetFocused(true)
		} else {
			m.focus = FocusQuery
			m.query.Focus()
			m.answer.SetFocused(false)
		}
		return m, nil
	case "enter":
		if m.focus == FocusQuery && !m.streaming {
			return m.submitQuery(m.query.Value())
		}
		return m, nil
	case "1", "2", "3":
		if !m.streaming && !m.query.Focused() {
			i := int(msg.String()[0] - '1')
			if i < len(m.suggestions) {
				return m.submitQuery(m.suggestions[i])
			}
		}
	}

	if m.focus == FocusAnswer {
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

// submitQuery starts an analysis run for the given question.
func (m AppModel) submitQuery(question string) (tea.Model, tea.Cmd) {
	question = strings.TrimSpace(question)
	if question == "" {
		return m, nil
	}

	req := fingertips.AnalysisRequest{
		IndicatorID: m.indicator.ID,
		Query:       question,
	}
	if result := m.data.Result(); result != nil {
		req.TimePeriod = result.TimePeriod
		req.Data = result.Data
	}

	runCtx, cancel := context.WithCancel(m.ctx)
	m.streamCancel = cancel
	m.handle = StartAnalysis(runCtx, m.stream, req)
	m.streaming = true
	m.errMsg = ""
	m.answer.Clear()
	m.query.SetValue("")
	return m, tea.Batch(WaitForFragmentCmd(m.handle), m.spinner.Tick)
}

// Run starts the Bubble Tea program in the alternate screen.
func Run(ctx context.Context, dataClient *client.DataClient, stream *client.AnalysisStream, suggester *client.SuggestionFetcher) error {
	model := NewAppModel(ctx, dataClient, stream, suggester)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
