package question

import (
	"errors"
	"strings"
	"testing"

	"mcquiz/internal/testutil"
)

const sampleCSV = `Question,Option A,Option B,Option C,Option D,Answer
2+2?,3,4,5,6,B
Capital of France?,Berlin,Madrid,Paris,Rome, c
`

const sampleJSON = `{
  "mcqs": [
    {"question": "2+2?", "options": {"A": "3", "B": "4", "C": "5", "D": "6"}, "answer": "B"},
    {"question": "Largest planet?", "options": {"A": "Mars", "B": "Venus", "C": "Jupiter", "D": "Earth"}, "answer": "C"}
  ]
}`

// TestParseCSV verifies CSV rows become records in order with normalized keys.
func TestParseCSV(t *testing.T) {
	set, err := Parse(sampleCSV, FormatAuto)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if set.Format != FormatCSV {
		t.Fatalf("expected csv format, got %q", set.Format)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", set.Len())
	}
	first := set.Records[0]
	if first.Prompt != "2+2?" {
		t.Fatalf("unexpected prompt %q", first.Prompt)
	}
	if first.Options != [OptionCount]string{"3", "4", "5", "6"} {
		t.Fatalf("unexpected options %+v", first.Options)
	}
	if first.Answer != AnswerB {
		t.Fatalf("expected answer B, got %v", first.Answer)
	}
	if set.Records[1].Answer != AnswerC {
		t.Fatalf("expected trimmed lower-case answer to parse as C, got %v", set.Records[1].Answer)
	}
	if len(set.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", set.Warnings)
	}
}

// TestParseCSVColumnOrderAndExtras verifies header lookup is by name.
func TestParseCSVColumnOrderAndExtras(t *testing.T) {
	text := "Answer,Notes,Option D,Option C,Option B,Option A,Question\nA,skip,d,c,b,a,Pick a\n"
	set, err := Parse(text, FormatCSV)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	record := set.Records[0]
	if record.Prompt != "Pick a" || record.Options[0] != "a" || record.Options[3] != "d" {
		t.Fatalf("unexpected record %+v", record)
	}
}

// TestParseCSVMissingColumns verifies missing headers abort the load.
func TestParseCSVMissingColumns(t *testing.T) {
	_, err := Parse("Question,Option A,Option B\nq,a,b\n", FormatCSV)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Option C") || !strings.Contains(err.Error(), "Answer") {
		t.Fatalf("expected missing columns in message, got %q", err.Error())
	}
}

// TestParseCSVMalformed verifies broken quoting is reported as a parse error.
func TestParseCSVMalformed(t *testing.T) {
	text := "Question,Option A,Option B,Option C,Option D,Answer\n\"unterminated,a,b,c,d,A\n"
	_, err := Parse(text, FormatCSV)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse csv") {
		t.Fatalf("expected parse csv error, got %v", err)
	}
}

// TestParseCSVEmptyCell verifies a missing field in any row fails the whole set.
func TestParseCSVEmptyCell(t *testing.T) {
	text := "Question,Option A,Option B,Option C,Option D,Answer\nq1,a,b,c,d,A\nq2,a,,c,d,A\n"
	_, err := Parse(text, FormatCSV)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Issues) != 1 || validationErr.Issues[0].Field != "questions[1].options.B" {
		t.Fatalf("unexpected issues: %+v", validationErr.Issues)
	}
}

// TestParseBlankAnswerIsRequired verifies an empty answer cell fails like any
// other missing field, in every format.
func TestParseBlankAnswerIsRequired(t *testing.T) {
	cases := map[Format]string{
		FormatCSV:  "Question,Option A,Option B,Option C,Option D,Answer\n2+2?,3,4,5,6,\n",
		FormatJSON: `{"mcqs": [{"question": "2+2?", "options": {"A": "3", "B": "4", "C": "5", "D": "6"}, "answer": "  "}]}`,
		FormatYAML: "mcqs:\n  - question: \"2+2?\"\n    options: {A: \"3\", B: \"4\", C: \"5\", D: \"6\"}\n    answer: \"\"\n",
	}
	for format, text := range cases {
		_, err := Parse(text, format)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected validation error, got %v", format, err)
		}
		if len(validationErr.Issues) != 1 || validationErr.Issues[0].Field != "questions[0].answer" || validationErr.Issues[0].Message != "is required" {
			t.Fatalf("%s: unexpected issues: %+v", format, validationErr.Issues)
		}
	}
}

// TestParseCSVHeaderOnly verifies a header without rows yields ErrNoQuestions.
func TestParseCSVHeaderOnly(t *testing.T) {
	_, err := Parse("Question,Option A,Option B,Option C,Option D,Answer\n\n", FormatCSV)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

// TestParseInvalidAnswerKeyIsWarning verifies bad keys load but never match.
func TestParseInvalidAnswerKeyIsWarning(t *testing.T) {
	text := "Question,Option A,Option B,Option C,Option D,Answer\nq,a,b,c,d,E\n"
	set, err := Parse(text, FormatCSV)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	record := set.Records[0]
	if record.Answer.Valid() {
		t.Fatalf("expected invalid key")
	}
	if record.RawAnswer != "E" {
		t.Fatalf("expected raw answer E, got %q", record.RawAnswer)
	}
	for _, option := range record.Options {
		if record.IsCorrect(option) {
			t.Fatalf("option %q should never be correct", option)
		}
	}
	if len(set.Warnings) != 1 || set.Warnings[0].Field != "questions[0].answer" {
		t.Fatalf("unexpected warnings: %+v", set.Warnings)
	}
}

// TestParseJSON verifies the mcqs document shape loads in order.
func TestParseJSON(t *testing.T) {
	set, err := Parse(sampleJSON, FormatAuto)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if set.Format != FormatJSON {
		t.Fatalf("expected json format, got %q", set.Format)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", set.Len())
	}
	if correct, ok := set.Records[1].CorrectOption(); !ok || correct != "Jupiter" {
		t.Fatalf("expected Jupiter, got %q", correct)
	}
}

// TestParseJSONMissingCollectionKey verifies a document without mcqs fails.
func TestParseJSONMissingCollectionKey(t *testing.T) {
	_, err := Parse(`{"questions": []}`, FormatJSON)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "mcqs") {
		t.Fatalf("expected mcqs in message, got %q", err.Error())
	}
}

// TestParseJSONMissingFields verifies the schema rejects incomplete records.
func TestParseJSONMissingFields(t *testing.T) {
	text := `{"mcqs": [
  {"question": "ok", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "answer": "A"},
  {"question": "no answer", "options": {"A": "1", "B": "2", "C": "3"}}
]}`
	_, err := Parse(text, FormatJSON)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := make([]string, 0, len(validationErr.Issues))
	for _, issue := range validationErr.Issues {
		fields = append(fields, issue.Field)
	}
	joined := strings.Join(fields, ",")
	if !strings.Contains(joined, "mcqs[1]") {
		t.Fatalf("expected issue for mcqs[1], got %v", fields)
	}
}

// TestParseJSONRejectsUnknownFields verifies JSON is as strict as YAML.
func TestParseJSONRejectsUnknownFields(t *testing.T) {
	text := `{"mcqs": [{"question": "2+2?", "hint": "even", "options": {"A": "3", "B": "4", "C": "5", "D": "6"}, "answer": "B"}]}`
	_, err := Parse(text, FormatJSON)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "mcqs[0]") || !strings.Contains(err.Error(), "hint") {
		t.Fatalf("expected issue naming mcqs[0] hint, got %q", err.Error())
	}
	yamlText := "mcqs:\n  - question: \"2+2?\"\n    hint: even\n    options: {A: \"3\", B: \"4\", C: \"5\", D: \"6\"}\n    answer: B\n"
	if _, err := Parse(yamlText, FormatYAML); err == nil {
		t.Fatalf("expected yaml to reject unknown field")
	}
}

// TestParseStripsByteOrderMark verifies a leading BOM is ignored in every format.
func TestParseStripsByteOrderMark(t *testing.T) {
	for _, text := range []string{"\ufeff" + sampleJSON, "\ufeff" + sampleCSV} {
		set, err := Parse(text, FormatAuto)
		if err != nil {
			t.Fatalf("parse with bom: %v", err)
		}
		if set.Len() != 2 {
			t.Fatalf("expected 2 records, got %d", set.Len())
		}
	}
}

// TestParseJSONSyntaxError verifies invalid JSON is a parse error.
func TestParseJSONSyntaxError(t *testing.T) {
	_, err := Parse(`{"mcqs": [`, FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "parse json") {
		t.Fatalf("expected parse json error, got %v", err)
	}
}

// TestParseYAML verifies YAML uses the same document shape as JSON.
func TestParseYAML(t *testing.T) {
	text := `mcqs:
  - question: "2+2?"
    options: {A: "3", B: "4", C: "5", D: "6"}
    answer: b
`
	set, err := Parse(text, FormatAuto)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if set.Format != FormatYAML {
		t.Fatalf("expected yaml format, got %q", set.Format)
	}
	if set.Records[0].Answer != AnswerB {
		t.Fatalf("expected answer B, got %v", set.Records[0].Answer)
	}
}

// TestParseYAMLMissingAnswer verifies an absent answer field is an error.
func TestParseYAMLMissingAnswer(t *testing.T) {
	text := `mcqs:
  - question: "2+2?"
    options: {A: "3", B: "4", C: "5", D: "6"}
`
	_, err := Parse(text, FormatYAML)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Issues[0].Field != "questions[0].answer" {
		t.Fatalf("unexpected issues: %+v", validationErr.Issues)
	}
}

// TestParseEmptyInput verifies whitespace-only input is rejected.
func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse("  \n\t", FormatAuto); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

// TestLoadFileUsesExtension verifies the file extension selects the decoder.
func TestLoadFileUsesExtension(t *testing.T) {
	path := testutil.WriteFile(t, "questions.csv", sampleCSV)
	set, err := LoadFile(path, FormatAuto)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if set.Format != FormatCSV || set.Len() != 2 {
		t.Fatalf("unexpected set: %+v", set)
	}
}

// TestDetectFormat verifies content sniffing for pasted text.
func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		sampleCSV:             FormatCSV,
		sampleJSON:            FormatJSON,
		"  [1, 2]":            FormatJSON,
		"mcqs:\n  - question": FormatYAML,
	}
	for text, want := range cases {
		if got := DetectFormat(text); got != want {
			t.Fatalf("detect %q: expected %q, got %q", text, want, got)
		}
	}
}

// TestFingerprintIgnoresFormat verifies equal questions share a fingerprint.
func TestFingerprintIgnoresFormat(t *testing.T) {
	csvSet, err := Parse("Question,Option A,Option B,Option C,Option D,Answer\n2+2?,3,4,5,6,B\n", FormatCSV)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	jsonSet, err := Parse(`{"mcqs":[{"question":"2+2?","options":{"A":"3","B":"4","C":"5","D":"6"},"answer":"B"}]}`, FormatJSON)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	left, err := csvSet.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	right, err := jsonSet.Fingerprint()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if left != right {
		t.Fatalf("expected equal fingerprints, got %s and %s", left, right)
	}
}
