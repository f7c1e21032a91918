package web

import (
	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
	"mcquiz/internal/store"
)

// pageData is everything a page render needs.
type pageData struct {
	Input    string
	Format   string
	Mode     string
	Notice   string
	Error    string
	Snapshot quiz.Snapshot
	Warnings []question.Issue
}

func newPageData(entry store.Entry) pageData {
	data := pageData{
		Input:    entry.Input,
		Format:   string(entry.Format),
		Mode:     entry.Mode,
		Notice:   entry.Notice,
		Error:    entry.Error,
		Snapshot: entry.Session.Snapshot(),
	}
	if data.Format == "" {
		data.Format = string(question.FormatAuto)
	}
	if data.Mode == "" {
		data.Mode = quiz.ModeAuto
	}
	if entry.Session != nil {
		data.Warnings = entry.Session.Set.Warnings
	}
	return data
}

// stateResponse is the body of GET /api/state.
type stateResponse struct {
	quiz.Snapshot
	Format   question.Format  `json:"format,omitempty"`
	Warnings []question.Issue `json:"warnings,omitempty"`
}

func newStateResponse(entry store.Entry) stateResponse {
	resp := stateResponse{Snapshot: entry.Session.Snapshot()}
	if entry.Session != nil {
		resp.Format = entry.Session.Set.Format
		resp.Warnings = entry.Session.Set.Warnings
	}
	return resp
}
