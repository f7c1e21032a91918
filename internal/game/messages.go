package game

import (
	"errors"
	"fmt"
	"strings"

	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

// ErrNoSession is reported when an action arrives before any questions load.
var ErrNoSession = errors.New("no quiz loaded")

// ErrStaleQuestion is reported when an answer targets a question that is no
// longer current.
var ErrStaleQuestion = errors.New("question is no longer active")

// LoadMessage turns a loader error into text for the player.
func LoadMessage(err error) string {
	var validationErr *question.ValidationError
	switch {
	case errors.Is(err, question.ErrEmptyInput):
		return "Paste some questions to start."
	case errors.Is(err, question.ErrNoQuestions):
		return "No questions found in the input."
	case errors.As(err, &validationErr):
		return validationErr.Error()
	default:
		return fmt.Sprintf("Could not read the questions: %v", err)
	}
}

// ActionMessage turns a session error into text for the player.
func ActionMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSession):
		return "Load some questions first."
	case errors.Is(err, ErrStaleQuestion):
		return "That question is no longer active."
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		return "You already answered this question."
	case errors.Is(err, quiz.ErrInvalidOption):
		return "Choose one of the listed options."
	case errors.Is(err, quiz.ErrNavigationDisabled):
		return "Next and Previous are only available in review mode."
	case errors.Is(err, quiz.ErrFinished):
		return "The quiz is finished. Restart to play again."
	case errors.Is(err, quiz.ErrNoQuestions):
		return "No questions found in the input."
	default:
		return err.Error()
	}
}

// Feedback describes a submitted answer.
func Feedback(record question.Record, outcome quiz.Outcome) string {
	if outcome.Correct {
		return "Correct!"
	}
	if !outcome.HasCorrectOption {
		return fmt.Sprintf("Incorrect. This question has no valid answer key (%q).", record.RawAnswer)
	}
	return fmt.Sprintf("Incorrect. The correct answer is %s: %s.", record.Answer, outcome.CorrectOption)
}

func loadNotice(set question.Set) string {
	notice := fmt.Sprintf("Loaded %d questions.", set.Len())
	if set.Len() == 1 {
		notice = "Loaded 1 question."
	}
	if len(set.Warnings) == 0 {
		return notice
	}
	parts := make([]string, 0, len(set.Warnings))
	for _, warning := range set.Warnings {
		parts = append(parts, warning.String())
	}
	return notice + " Warnings: " + strings.Join(parts, "; ")
}
