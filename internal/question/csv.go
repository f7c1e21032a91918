package question

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSV column names, in the order they are reported when missing.
const (
	ColumnQuestion = "Question"
	ColumnOptionA  = "Option A"
	ColumnOptionB  = "Option B"
	ColumnOptionC  = "Option C"
	ColumnOptionD  = "Option D"
	ColumnAnswer   = "Answer"
)

// RequiredColumns lists the header names a CSV question set must carry.
var RequiredColumns = []string{
	ColumnQuestion,
	ColumnOptionA,
	ColumnOptionB,
	ColumnOptionC,
	ColumnOptionD,
	ColumnAnswer,
}

func parseCSV(text string) ([]rawRecord, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoQuestions
		}
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}
	missing := make([]string, 0)
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Issues: []Issue{{
			Field:   "columns",
			Message: fmt.Sprintf("CSV text must contain the following columns: %s (missing: %s)", strings.Join(RequiredColumns, ", "), strings.Join(missing, ", ")),
		}}}
	}

	optionColumns := [OptionCount]string{ColumnOptionA, ColumnOptionB, ColumnOptionC, ColumnOptionD}
	raws := make([]rawRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if blankRow(row) {
			continue
		}
		raw := rawRecord{Prompt: cell(row, columns[ColumnQuestion])}
		for slot, name := range optionColumns {
			raw.Options[slot] = cell(row, columns[name])
		}
		answer := cell(row, columns[ColumnAnswer])
		raw.Answer = &answer
		raws = append(raws, raw)
	}
	return raws, nil
}

// cell returns the field at index, or an empty string for short rows.
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
