package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TurnRunner is the TUI-facing subset of the orchestrator.
type TurnRunner interface {
	HandleTurn(ctx context.Context, utterance string) (string, error)
}

// SummaryProvider supplies the corpus overview shown in the header.
// The first call triggers the index build, so it runs as a command.
type SummaryProvider interface {
	Summary() (string, error)
}

type summaryMsg struct {
	summary string
	err     error
}

type turnMsg struct {
	answer string
	err    error
}

// Model is the Bubble Tea model for the chat loop.
type Model struct {
	runner    TurnRunner
	summaries SummaryProvider
	input     textinput.Model
	viewport  viewport.Model
	spin      spinner.Model
	lines     []string
	summary   string
	status    string
	waiting   bool
	ready     bool
}

// New creates a new chat model instance.
func New(runner TurnRunner, summaries SummaryProvider) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Γράψε ερώτηση ή αίτημα για πλάνο ('exit' για έξοδο)"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{
		runner:    runner,
		summaries: summaries,
		input:     ti,
		viewport:  vp,
		spin:      sp,
		status:    "Preparing corpus index...",
	}
}

// Init starts the cursor blink and kicks off the index build in the
// background so the first question does not pay the full build latency.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSummary())
}

func (m Model) loadSummary() tea.Cmd {
	return func() tea.Msg {
		s, err := m.summaries.Summary()
		return summaryMsg{summary: s, err: err}
	}
}

func (m Model) runTurn(utterance string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.runner.HandleTurn(context.Background(), utterance)
		return turnMsg{answer: answer, err: err}
	}
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+summary, status, input frame, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		return m, nil

	case summaryMsg:
		if msg.err != nil {
			m.status = "Index error: " + msg.err.Error()
			return m, nil
		}
		if msg.summary == "" {
			m.summary = "No documents in the corpus yet."
		} else {
			m.summary = msg.summary
		}
		m.status = "Ready. Ask a question or request a plan."
		return m, nil

	case turnMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render("Σφάλμα: "+msg.err.Error()), "")
			m.status = "Turn failed. You can try again."
		} else {
			m.lines = append(m.lines, msg.answer, dividerStyle.Render(strings.Repeat("─", 30)), "")
			m.status = "Ready."
		}
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				// blank input is ignored and does not consume a turn
				return m, nil
			}
			if strings.EqualFold(q, "exit") {
				return m, tea.Quit
			}
			if m.waiting {
				m.status = "Still working on the previous turn..."
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.lines = append(m.lines, userStyle.Render("> "+q), "")
			m.viewport.SetContent(strings.Join(m.lines, "\n"))
			m.viewport.GotoBottom()
			return m, tea.Batch(m.runTurn(q), m.spin.Tick)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("LLM Generic Planner")
	summary := summaryStyle.Render(m.summary)
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.waiting {
		status = m.spin.View() + " " + status
	}
	return header + "\n" + summary + "\n" + chat + "\n" + input + "\n" + status
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
