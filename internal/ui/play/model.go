// Package play drives a quiz session from the terminal.
package play

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mcquiz/internal/game"
	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

// Model renders a quiz session using Bubble Tea.
type Model struct {
	session  *quiz.Session
	cursor   int
	feedback string
	correct  bool
	errText  string
	results  table.Model
	noColor  bool
	quitting bool
}

// Options configures the terminal UI.
type Options struct {
	NoColor bool
}

// NewModel constructs a model over an existing session.
func NewModel(session *quiz.Session, opts Options) Model {
	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	m := Model{session: session, results: t, noColor: opts.NoColor}
	m.syncCursor()
	return m
}

// Session returns the session as last updated.
func (m Model) Session() *quiz.Session {
	return m.session
}

// Init has no startup work.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.results.SetWidth(typed.Width)
		m.results.SetColumns(columnsForWidth(typed.Width))
		m.results.SetHeight(max(typed.Height-6, 3))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.errText = ""
	switch key {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.session.Restart()
		m.feedback = ""
		m.syncCursor()
		return m, nil
	}
	if m.session.Finished {
		return m, nil
	}
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < question.OptionCount-1 {
			m.cursor++
		}
	case "a", "b", "c", "d", "1", "2", "3", "4":
		m.cursor = slotForKey(key)
	case "enter", " ":
		m = m.submit()
	case "n", "right":
		if m.session.Next() {
			m.feedback = ""
			m.syncCursor()
		}
	case "p", "left":
		if m.session.Previous() {
			m.feedback = ""
			m.syncCursor()
		}
	case "f":
		if err := m.session.Finish(); err != nil {
			m.errText = err.Error()
		}
		m.refreshResults()
	}
	return m, nil
}

func (m Model) submit() Model {
	record, ok := m.session.Current()
	if !ok {
		return m
	}
	outcome, err := m.session.Submit(record.Options[m.cursor])
	if err != nil {
		m.errText = err.Error()
		return m
	}
	m.correct = outcome.Correct
	m.feedback = game.Feedback(record, outcome)
	if m.session.Finished {
		m.refreshResults()
		return m
	}
	m.syncCursor()
	return m
}

// syncCursor points at the stored answer of the current question, or A.
func (m *Model) syncCursor() {
	m.cursor = 0
	record, ok := m.session.Current()
	if !ok {
		return
	}
	answer, ok := m.session.AnswerAt(m.session.Index)
	if !ok || !answer.Submitted {
		return
	}
	for slot, option := range record.Options {
		if option == answer.Selected {
			m.cursor = slot
			return
		}
	}
}

func (m *Model) refreshResults() {
	m.results.SetRows(rowsForSnapshot(m.session.Snapshot()))
}

// View renders the current question or the results.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.session.Snapshot()
	parts := []string{renderHeader(snap, m.noColor)}
	if snap.Phase == quiz.PhaseFinished {
		parts = append(parts, renderScore(snap, m.noColor), m.results.View())
	} else if snap.Question != nil {
		parts = append(parts, renderQuestion(*snap.Question, m.cursor, m.noColor))
	}
	if m.feedback != "" {
		parts = append(parts, renderFeedback(m.feedback, m.correct, m.noColor))
	}
	if m.errText != "" {
		parts = append(parts, stylize(m.errText, m.noColor, lipgloss.Color("160")))
	}
	parts = append(parts, renderHelp(snap, m.noColor))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func slotForKey(key string) int {
	switch key {
	case "a", "1":
		return 0
	case "b", "2":
		return 1
	case "c", "3":
		return 2
	default:
		return 3
	}
}
