package question

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaSource holds the JSON Schema for the "mcqs" document shape.
//
//go:embed mcqs.schema.json
var schemaSource string

const schemaURL = "mcqs.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// mcqDocument is the decoded JSON or YAML question document.
type mcqDocument struct {
	MCQs []mcqItem `json:"mcqs" yaml:"mcqs"`
}

type mcqItem struct {
	Question string            `json:"question" yaml:"question"`
	Options  map[string]string `json:"options" yaml:"options"`
	Answer   *string           `json:"answer" yaml:"answer"`
}

// SchemaSource returns the JSON Schema used to validate JSON question sets.
func SchemaSource() string {
	return schemaSource
}

func questionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("load question schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile question schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

func parseJSON(text string) ([]rawRecord, error) {
	var generic interface{}
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()
	if err := decoder.Decode(&generic); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("parse json: multiple documents are not supported")
	}
	schema, err := questionSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		var schemaErr *jsonschema.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, &ValidationError{Issues: schemaIssues(schemaErr)}
		}
		return nil, fmt.Errorf("validate json: %w", err)
	}

	var doc mcqDocument
	typed := json.NewDecoder(strings.NewReader(text))
	typed.DisallowUnknownFields()
	if err := typed.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return doc.rawRecords(), nil
}

func (doc mcqDocument) rawRecords() []rawRecord {
	raws := make([]rawRecord, 0, len(doc.MCQs))
	for _, item := range doc.MCQs {
		raw := rawRecord{Prompt: item.Question, Answer: item.Answer}
		for slot, label := range Labels {
			raw.Options[slot] = item.Options[label]
		}
		raws = append(raws, raw)
	}
	return raws
}

// schemaIssues flattens a schema error tree into one issue per leaf.
func schemaIssues(err *jsonschema.ValidationError) []Issue {
	leaves := make([]*jsonschema.ValidationError, 0)
	var walk func(node *jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			leaves = append(leaves, node)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)

	issues := make([]Issue, 0, len(leaves))
	for _, leaf := range leaves {
		issues = append(issues, Issue{Field: pointerToField(leaf.InstanceLocation), Message: leaf.Message})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues
}

// pointerToField converts a JSON pointer such as /mcqs/0/options into
// mcqs[0].options.
func pointerToField(pointer string) string {
	trimmed := strings.Trim(pointer, "/")
	if trimmed == "" {
		return "$"
	}
	var builder strings.Builder
	for i, part := range strings.Split(trimmed, "/") {
		if isIndex(part) {
			builder.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			builder.WriteString(".")
		}
		builder.WriteString(part)
	}
	return builder.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
