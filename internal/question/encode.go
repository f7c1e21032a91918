package question

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode renders a set in the given format. The output loads back into an
// equivalent set.
func Encode(set Set, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(set)
	case FormatJSON:
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(newDocument(set)); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(newDocument(set)); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("encode: unsupported format %q", format)
	}
}

func encodeCSV(set Set) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(RequiredColumns); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	for _, record := range set.Records {
		row := []string{record.Prompt}
		row = append(row, record.Options[:]...)
		row = append(row, exportAnswer(record))
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func newDocument(set Set) mcqDocument {
	doc := mcqDocument{MCQs: make([]mcqItem, 0, set.Len())}
	for _, record := range set.Records {
		options := make(map[string]string, OptionCount)
		for slot, label := range Labels {
			options[label] = record.Options[slot]
		}
		answer := exportAnswer(record)
		doc.MCQs = append(doc.MCQs, mcqItem{Question: record.Prompt, Options: options, Answer: &answer})
	}
	return doc
}

// exportAnswer keeps the original text of invalid keys so a round trip
// preserves them.
func exportAnswer(record Record) string {
	if record.Answer.Valid() {
		return record.Answer.String()
	}
	return record.RawAnswer
}
