package quiz

import "mcquiz/internal/question"

// Snapshot is a read-only view of a session for rendering and the JSON API.
type Snapshot struct {
	Phase     Phase          `json:"phase"`
	Mode      Mode           `json:"mode,omitempty"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Score     int            `json:"score"`
	Answered  int            `json:"answered"`
	Finished  bool           `json:"finished"`
	Submitted bool           `json:"submitted"`
	Question  *QuestionView  `json:"question,omitempty"`
	Results   []QuestionView `json:"results,omitempty"`
}

// QuestionView is one question with the player's recorded answer.
type QuestionView struct {
	Number    int      `json:"number"`
	Prompt    string   `json:"prompt"`
	Options   []Option `json:"options"`
	Selected  string   `json:"selected,omitempty"`
	Submitted bool     `json:"submitted"`
	Correct   bool     `json:"correct"`
	// CorrectOption is only populated once the question was submitted.
	CorrectOption string `json:"correct_option,omitempty"`
	InvalidKey    bool   `json:"invalid_key,omitempty"`
}

// Option is a labeled answer choice.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Snapshot builds the view of the session. A nil session yields the
// awaiting-input phase.
func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{Phase: PhaseAwaitingInput}
	}
	snap := Snapshot{
		Phase:     s.Phase(),
		Mode:      s.Mode,
		Index:     s.Index,
		Total:     s.Total(),
		Score:     s.Score,
		Answered:  s.Answered(),
		Finished:  s.Finished,
		Submitted: s.Submitted,
	}
	if _, ok := s.Current(); ok {
		view := s.questionView(s.Index)
		snap.Question = &view
	}
	if s.Finished {
		snap.Results = make([]QuestionView, 0, s.Total())
		for i := range s.Set.Records {
			snap.Results = append(snap.Results, s.questionView(i))
		}
	}
	return snap
}

func (s *Session) questionView(i int) QuestionView {
	record := s.Set.Records[i]
	view := QuestionView{
		Number:     i + 1,
		Prompt:     record.Prompt,
		Options:    make([]Option, 0, question.OptionCount),
		InvalidKey: !record.Answer.Valid(),
	}
	for slot, text := range record.Options {
		view.Options = append(view.Options, Option{Label: question.Labels[slot], Text: text})
	}
	if answer, ok := s.AnswerAt(i); ok && answer.Submitted {
		view.Selected = answer.Selected
		view.Submitted = true
		view.Correct = answer.Correct
		view.CorrectOption, _ = record.CorrectOption()
	} else if s.Finished {
		view.CorrectOption, _ = record.CorrectOption()
	}
	return view
}
