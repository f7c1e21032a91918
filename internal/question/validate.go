package question

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput indicates that no question text was provided.
var ErrEmptyInput = errors.New("question text is empty")

// ErrNoQuestions indicates that the input parsed but held no questions.
var ErrNoQuestions = errors.New("no questions found")

// Issue captures a validation problem in a question set.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the issue as "field: message".
func (issue Issue) String() string {
	return fmt.Sprintf("%s: %s", issue.Field, issue.Message)
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("question validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// rawRecord is the format-neutral shape produced by each decoder.
type rawRecord struct {
	Prompt  string
	Options [OptionCount]string
	Answer  *string
}

// buildSet trims, validates, and converts decoded records into a Set.
// Invalid answer keys are kept and reported as warnings.
func buildSet(format Format, raws []rawRecord) (Set, error) {
	if len(raws) == 0 {
		return Set{}, ErrNoQuestions
	}
	collector := &issueCollector{}
	warnings := &issueCollector{}
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		prefix := fmt.Sprintf("questions[%d]", i)
		record := Record{Prompt: strings.TrimSpace(raw.Prompt)}
		if record.Prompt == "" {
			collector.add(prefix+".question", "is required")
		}
		for slot, option := range raw.Options {
			record.Options[slot] = strings.TrimSpace(option)
			if record.Options[slot] == "" {
				collector.add(fmt.Sprintf("%s.options.%s", prefix, Labels[slot]), "is required")
			}
		}
		if raw.Answer != nil {
			record.RawAnswer = strings.TrimSpace(*raw.Answer)
		}
		if record.RawAnswer == "" {
			collector.add(prefix+".answer", "is required")
		} else {
			record.Answer = ParseAnswerKey(record.RawAnswer)
			if !record.Answer.Valid() {
				warnings.add(prefix+".answer", fmt.Sprintf("%q is not one of A, B, C, D; the question can never be answered correctly", record.RawAnswer))
			}
		}
		records = append(records, record)
	}
	if err := collector.result(); err != nil {
		return Set{}, err
	}
	return Set{Format: format, Records: records, Warnings: warnings.issues}, nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
