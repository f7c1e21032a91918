package question

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// Format identifies the text format a question set was loaded from.
type Format string

const (
	// FormatAuto asks the loader to detect the format from the text.
	FormatAuto Format = "auto"
	// FormatCSV is a header row followed by one question per line.
	FormatCSV Format = "csv"
	// FormatJSON is an object with a top-level "mcqs" array.
	FormatJSON Format = "json"
	// FormatYAML mirrors the JSON shape in YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts user input into a Format. Empty input means auto.
func ParseFormat(value string) (Format, error) {
	switch Format(normalizeKey(value)) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected auto|csv|json|yaml)", value)
	}
}

// Record is a single multiple-choice question.
type Record struct {
	Prompt    string              `json:"question"`
	Options   [OptionCount]string `json:"options"`
	Answer    AnswerKey           `json:"answer"`
	RawAnswer string              `json:"raw_answer,omitempty"`
}

// CorrectOption returns the option text selected by the answer key.
func (r Record) CorrectOption() (string, bool) {
	slot, ok := r.Answer.Slot()
	if !ok {
		return "", false
	}
	return r.Options[slot], true
}

// IsCorrect reports whether selected equals the option under the answer key.
// A record with an invalid key is never correct.
func (r Record) IsCorrect(selected string) bool {
	correct, ok := r.CorrectOption()
	if !ok {
		return false
	}
	return selected == correct
}

// HasOption reports whether value is one of the record's options.
func (r Record) HasOption(value string) bool {
	for _, option := range r.Options {
		if option == value {
			return true
		}
	}
	return false
}

// Set is an ordered list of questions loaded from one input.
type Set struct {
	Format   Format   `json:"format"`
	Records  []Record `json:"records"`
	Warnings []Issue  `json:"warnings,omitempty"`
}

// Len returns the number of questions in the set.
func (s Set) Len() int {
	return len(s.Records)
}

// Fingerprint returns a SHA-256 hex digest of the records. Two sets with the
// same questions share a fingerprint regardless of the input format.
func (s Set) Fingerprint() (string, error) {
	data, err := json.Marshal(s.Records)
	if err != nil {
		return "", fmt.Errorf("fingerprint questions: %w", err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
