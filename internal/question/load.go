package question

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const byteOrderMark = "\ufeff"

// Parse decodes question text in the given format into a validated Set.
// FormatAuto detects the format from the text.
func Parse(text string, format Format) (Set, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	if strings.TrimSpace(text) == "" {
		return Set{}, ErrEmptyInput
	}
	if format == "" || format == FormatAuto {
		format = DetectFormat(text)
	}

	var (
		raws []rawRecord
		err  error
	)
	switch format {
	case FormatCSV:
		raws, err = parseCSV(text)
	case FormatJSON:
		raws, err = parseJSON(text)
	case FormatYAML:
		raws, err = parseYAML(text)
	default:
		return Set{}, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return Set{}, err
	}
	return buildSet(format, raws)
}

// DetectFormat guesses the format of question text. Text starting with an
// object or array is JSON, a first line naming the Question column is CSV,
// and anything else is treated as YAML.
func DetectFormat(text string) Format {
	trimmed := strings.TrimSpace(strings.TrimPrefix(text, byteOrderMark))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}
	firstLine := trimmed
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		firstLine = trimmed[:newline]
	}
	if strings.Contains(firstLine, ",") && strings.Contains(firstLine, ColumnQuestion) {
		return FormatCSV
	}
	return FormatYAML
}

// FormatFromPath maps a file extension to a format, or FormatAuto when the
// extension is unknown.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// LoadFile reads and parses a question file. FormatAuto uses the file
// extension first and falls back to content detection.
func LoadFile(path string, format Format) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read questions: %w", err)
	}
	if format == "" || format == FormatAuto {
		format = FormatFromPath(path)
	}
	return Parse(string(data), format)
}
