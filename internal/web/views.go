package web

import (
	"fmt"

	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

//go:generate templ generate -f views.templ

const inputHint = `Paste questions as CSV (Question, Option A, Option B, Option C, Option D, Answer), JSON ({"mcqs": [...]}) or YAML.`

var (
	formatChoices = []string{string(question.FormatAuto), string(question.FormatCSV), string(question.FormatJSON), string(question.FormatYAML)}
	modeChoices   = []string{quiz.ModeAuto, string(quiz.ModeImmediate), string(quiz.ModeReview)}
)

func progressLine(snap quiz.Snapshot, current quiz.QuestionView) string {
	return fmt.Sprintf("Question %d of %d | Score %d", current.Number, snap.Total, snap.Score)
}

func scoreLine(snap quiz.Snapshot) string {
	return fmt.Sprintf("Your score: %d / %d", snap.Score, snap.Total)
}

// optionState marks the right and the picked option once submitted.
func optionState(current quiz.QuestionView, option quiz.Option) string {
	if !current.Submitted {
		return ""
	}
	switch option.Text {
	case current.CorrectOption:
		return "correct"
	case current.Selected:
		return "wrong"
	}
	return ""
}

func resultState(result quiz.QuestionView) string {
	switch {
	case !result.Submitted:
		return ""
	case result.Correct:
		return "correct"
	default:
		return "wrong"
	}
}

func yourAnswer(result quiz.QuestionView) string {
	if !result.Submitted {
		return "not answered"
	}
	return result.Selected
}

func correctAnswer(result quiz.QuestionView) string {
	if result.InvalidKey {
		return "no valid answer key"
	}
	return result.CorrectOption
}
