package play

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

const sampleCSV = "Question,Option A,Option B,Option C,Option D,Answer\n2+2?,3,4,5,6,B\nCapital of France?,Berlin,Madrid,Paris,Rome,C\n"

func newSession(t *testing.T, mode quiz.Mode) *quiz.Session {
	t.Helper()
	set, err := question.Parse(sampleCSV, question.FormatCSV)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	session, err := quiz.New(set, mode)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

// TestModelImmediateFlow verifies keyboard answers score and finish the quiz.
func TestModelImmediateFlow(t *testing.T) {
	m := NewModel(newSession(t, quiz.ModeImmediate), Options{NoColor: true})
	if !strings.Contains(m.View(), "2+2?") {
		t.Fatalf("expected first question in view:\n%s", m.View())
	}
	m = press(t, m, "down", "enter")
	if m.Session().Score != 1 || m.Session().Index != 1 {
		t.Fatalf("unexpected session after first answer: %+v", m.Session())
	}
	if !strings.Contains(m.View(), "Correct!") {
		t.Fatalf("expected feedback in view:\n%s", m.View())
	}
	m = press(t, m, "a", "enter")
	if !m.Session().Finished {
		t.Fatalf("expected finished session")
	}
	view := m.View()
	if !strings.Contains(view, "Your score: 1 / 2") || !strings.Contains(view, "Paris") {
		t.Fatalf("expected results view:\n%s", view)
	}
	m = press(t, m, "r")
	if m.Session().Finished || m.Session().Score != 0 {
		t.Fatalf("expected restart to reset the session")
	}
}

// TestModelReviewNavigation verifies n and p move between questions.
func TestModelReviewNavigation(t *testing.T) {
	m := NewModel(newSession(t, quiz.ModeReview), Options{NoColor: true})
	m = press(t, m, "c", "enter")
	if m.Session().Index != 0 || !m.Session().Submitted {
		t.Fatalf("review submit should stay on the question")
	}
	if !strings.Contains(m.View(), "(your answer)") || !strings.Contains(m.View(), "(correct)") {
		t.Fatalf("expected answer marks:\n%s", m.View())
	}
	m = press(t, m, "enter")
	if !strings.Contains(m.View(), quiz.ErrAlreadySubmitted.Error()) {
		t.Fatalf("expected resubmit error:\n%s", m.View())
	}
	m = press(t, m, "n")
	if m.Session().Index != 1 || m.cursor != 0 {
		t.Fatalf("expected second question with reset cursor, got index=%d cursor=%d", m.Session().Index, m.cursor)
	}
	m = press(t, m, "p")
	if m.cursor != 2 {
		t.Fatalf("expected cursor on the stored answer, got %d", m.cursor)
	}
	m = press(t, m, "f")
	if !m.Session().Finished {
		t.Fatalf("expected finish")
	}
}

// TestModelCursorBounds verifies the cursor stays on an option.
func TestModelCursorBounds(t *testing.T) {
	m := NewModel(newSession(t, quiz.ModeReview), Options{NoColor: true})
	m = press(t, m, "up", "up")
	if m.cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", m.cursor)
	}
	m = press(t, m, "down", "down", "down", "down", "down")
	if m.cursor != question.OptionCount-1 {
		t.Fatalf("expected cursor %d, got %d", question.OptionCount-1, m.cursor)
	}
}

// TestRunPlain verifies the line-mode runner accepts labels and option text.
func TestRunPlain(t *testing.T) {
	session := newSession(t, quiz.ModeImmediate)
	var out bytes.Buffer
	in := strings.NewReader("x\nb\nParis\n")
	if err := RunPlain(session, in, &out); err != nil {
		t.Fatalf("run plain: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Answer with A, B, C or D") {
		t.Fatalf("expected hint for bad input:\n%s", text)
	}
	if !strings.Contains(text, "Finished! Your score: 2 / 2") {
		t.Fatalf("expected final score:\n%s", text)
	}
}

// TestRunPlainStopsAtEOF verifies closed input ends the run without error.
func TestRunPlainStopsAtEOF(t *testing.T) {
	session := newSession(t, quiz.ModeReview)
	var out bytes.Buffer
	if err := RunPlain(session, strings.NewReader("a\n"), &out); err != nil {
		t.Fatalf("run plain: %v", err)
	}
	if session.Finished {
		t.Fatalf("expected unfinished session at EOF")
	}
	if !strings.Contains(out.String(), "(answered)") {
		t.Fatalf("expected answered marker on re-prompt:\n%s", out.String())
	}
}

// TestRunPlainImmediateRefusesNavigation verifies n and p are refused outside
// review mode and leave the current question in place.
func TestRunPlainImmediateRefusesNavigation(t *testing.T) {
	session := newSession(t, quiz.ModeImmediate)
	var out bytes.Buffer
	if err := RunPlain(session, strings.NewReader("n\np\nb\n"), &out); err != nil {
		t.Fatalf("run plain: %v", err)
	}
	text := out.String()
	if strings.Count(text, "Next and Previous are only available in review mode.") != 2 {
		t.Fatalf("expected two refusals:\n%s", text)
	}
	if session.Index != 1 || session.Score != 1 {
		t.Fatalf("expected first answer scored and moved on, index=%d score=%d", session.Index, session.Score)
	}
}
