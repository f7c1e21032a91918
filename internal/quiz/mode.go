package quiz

import (
	"fmt"
	"strings"

	"mcquiz/internal/question"
)

// Mode selects how Submit moves through the questions.
type Mode string

const (
	// ModeImmediate scores and advances to the next question on Submit.
	ModeImmediate Mode = "immediate"
	// ModeReview scores and stays on the question; the player moves with
	// Next and Previous and ends with Finish.
	ModeReview Mode = "review"
)

// ModeAuto defers the choice to the question format.
const ModeAuto = "auto"

// DefaultMode returns the mode used for a format when none is requested:
// CSV input plays in immediate mode, JSON and YAML in review mode.
func DefaultMode(format question.Format) Mode {
	if format == question.FormatCSV {
		return ModeImmediate
	}
	return ModeReview
}

// ResolveMode parses a requested mode, falling back to the format default
// for "auto" or empty input.
func ResolveMode(requested string, format question.Format) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "", ModeAuto:
		return DefaultMode(format), nil
	case string(ModeImmediate):
		return ModeImmediate, nil
	case string(ModeReview):
		return ModeReview, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected auto|immediate|review)", requested)
	}
}

// ValidMode reports whether value names a mode or "auto".
func ValidMode(value string) bool {
	_, err := ResolveMode(value, question.FormatCSV)
	return err == nil
}
