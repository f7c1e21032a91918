package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mcquiz/internal/quiz"
)

// renderHeader renders the progress line.
func renderHeader(snap quiz.Snapshot, noColor bool) string {
	line := fmt.Sprintf("MCQ Quiz | %s mode | Score %d/%d", snap.Mode, snap.Score, snap.Total)
	if snap.Question != nil {
		line = fmt.Sprintf("Question %d/%d | %s mode | Score %d", snap.Question.Number, snap.Total, snap.Mode, snap.Score)
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderQuestion renders the prompt and the option list with a cursor.
func renderQuestion(view quiz.QuestionView, cursor int, noColor bool) string {
	var b strings.Builder
	b.WriteString(stylizeBold(view.Prompt, noColor))
	b.WriteString("\n")
	for slot, option := range view.Options {
		pointer := "  "
		if slot == cursor {
			pointer = "> "
		}
		line := pointer + option.Label + ". " + option.Text
		if view.Submitted {
			switch {
			case option.Text == view.CorrectOption:
				line = stylize(line+"  (correct)", noColor, lipgloss.Color("34"))
			case option.Text == view.Selected:
				line = stylize(line+"  (your answer)", noColor, lipgloss.Color("160"))
			}
		}
		b.WriteString(line)
		if slot < len(view.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderScore renders the final score line.
func renderScore(snap quiz.Snapshot, noColor bool) string {
	return stylizeBold(fmt.Sprintf("Finished! Your score: %d / %d", snap.Score, snap.Total), noColor)
}

// renderFeedback renders the result of the last submit.
func renderFeedback(text string, correct bool, noColor bool) string {
	color := lipgloss.Color("160")
	if correct {
		color = lipgloss.Color("34")
	}
	return stylize(text, noColor, color)
}

// renderHelp renders the key bindings for the current phase.
func renderHelp(snap quiz.Snapshot, noColor bool) string {
	help := "r restart | q quit"
	if snap.Phase == quiz.PhaseInProgress {
		help = "up/down or a-d choose | enter submit | f finish | r restart | q quit"
		if snap.Mode == quiz.ModeReview {
			help = "up/down or a-d choose | enter submit | n next | p previous | f finish | q quit"
		}
	}
	return stylize(help, noColor, lipgloss.Color("242"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func stylizeBold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}
