package quiz

import (
	"errors"

	"mcquiz/internal/question"
)

var (
	// ErrFinished is returned for actions other than Restart on a finished quiz.
	ErrFinished = errors.New("quiz is finished")
	// ErrAlreadySubmitted is returned when the current question was answered.
	ErrAlreadySubmitted = errors.New("question already submitted")
	// ErrInvalidOption is returned when the selection is not one of the options.
	ErrInvalidOption = errors.New("selected option is not one of the question's options")
	// ErrNoQuestions is returned when a session is created from an empty set.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrNavigationDisabled is returned for Next or Previous outside review mode.
	ErrNavigationDisabled = errors.New("navigation is only available in review mode")
)

// Phase is the coarse lifecycle state of a session.
type Phase string

const (
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseInProgress    Phase = "in_progress"
	PhaseFinished      Phase = "finished"
)

// Answer records what the player picked for one question.
type Answer struct {
	Selected  string `json:"selected"`
	Correct   bool   `json:"correct"`
	Submitted bool   `json:"submitted"`
}

// Outcome describes the result of a Submit.
type Outcome struct {
	Correct          bool
	CorrectOption    string
	HasCorrectOption bool
	Advanced         bool
	Finished         bool
}

// Session is the per-player quiz state. It is not safe for concurrent use;
// each request owns the session it loaded.
type Session struct {
	Set       question.Set `json:"set"`
	Mode      Mode         `json:"mode"`
	Index     int          `json:"index"`
	Score     int          `json:"score"`
	Finished  bool         `json:"finished"`
	Submitted bool         `json:"submitted"`
	Answers   []Answer     `json:"answers"`
}

// New starts a session at the first question.
func New(set question.Set, mode Mode) (*Session, error) {
	if set.Len() == 0 {
		return nil, ErrNoQuestions
	}
	if mode != ModeImmediate && mode != ModeReview {
		mode = DefaultMode(set.Format)
	}
	return &Session{
		Set:     set,
		Mode:    mode,
		Answers: make([]Answer, set.Len()),
	}, nil
}

// Phase reports the lifecycle state. A nil session is awaiting input.
func (s *Session) Phase() Phase {
	if s == nil {
		return PhaseAwaitingInput
	}
	if s.Finished {
		return PhaseFinished
	}
	return PhaseInProgress
}

// Total returns the number of questions.
func (s *Session) Total() int {
	if s == nil {
		return 0
	}
	return s.Set.Len()
}

// Current returns the question at the current index.
func (s *Session) Current() (question.Record, bool) {
	if s == nil || s.Finished || s.Index < 0 || s.Index >= s.Total() {
		return question.Record{}, false
	}
	return s.Set.Records[s.Index], true
}

// AnswerAt returns the recorded answer for question i.
func (s *Session) AnswerAt(i int) (Answer, bool) {
	if s == nil || i < 0 || i >= len(s.Answers) {
		return Answer{}, false
	}
	return s.Answers[i], true
}

// Submit scores selected against the current question. The score grows by
// exactly one on a match. In immediate mode the session then advances and
// finishes after the last question; in review mode it stays put.
func (s *Session) Submit(selected string) (Outcome, error) {
	if s.Finished {
		return Outcome{}, ErrFinished
	}
	record, ok := s.Current()
	if !ok {
		return Outcome{}, ErrFinished
	}
	s.ensureAnswers()
	if s.Answers[s.Index].Submitted {
		return Outcome{}, ErrAlreadySubmitted
	}
	if !record.HasOption(selected) {
		return Outcome{}, ErrInvalidOption
	}

	outcome := Outcome{Correct: record.IsCorrect(selected)}
	outcome.CorrectOption, outcome.HasCorrectOption = record.CorrectOption()
	if outcome.Correct {
		s.Score++
	}
	s.Answers[s.Index] = Answer{Selected: selected, Correct: outcome.Correct, Submitted: true}

	if s.Mode == ModeImmediate {
		s.Index++
		outcome.Advanced = true
		if s.Index >= s.Total() {
			s.Finished = true
			outcome.Finished = true
		}
		s.syncSubmitted()
		return outcome, nil
	}
	s.Submitted = true
	return outcome, nil
}

// CanNavigate reports whether Next and Previous apply. Immediate mode only
// moves forward by submitting.
func (s *Session) CanNavigate() bool {
	return s != nil && s.Mode == ModeReview
}

// Next moves to the following question. It reports false outside review
// mode, at the last question, or once finished.
func (s *Session) Next() bool {
	if !s.CanNavigate() || s.Finished || s.Index >= s.Total()-1 {
		return false
	}
	s.Index++
	s.syncSubmitted()
	return true
}

// Previous moves to the preceding question. It reports false outside review
// mode, at the first question, or once finished.
func (s *Session) Previous() bool {
	if !s.CanNavigate() || s.Finished || s.Index <= 0 {
		return false
	}
	s.Index--
	s.syncSubmitted()
	return true
}

// Finish ends the quiz from any question.
func (s *Session) Finish() error {
	if s.Finished {
		return ErrFinished
	}
	s.Finished = true
	s.Index = s.Total()
	s.Submitted = false
	return nil
}

// Restart returns the session to the first question with no answers.
func (s *Session) Restart() {
	s.Index = 0
	s.Score = 0
	s.Finished = false
	s.Submitted = false
	s.Answers = make([]Answer, s.Total())
}

// Answered returns how many questions have been submitted.
func (s *Session) Answered() int {
	count := 0
	for _, answer := range s.Answers {
		if answer.Submitted {
			count++
		}
	}
	return count
}

// syncSubmitted mirrors the stored answer of the current question.
func (s *Session) syncSubmitted() {
	answer, ok := s.AnswerAt(s.Index)
	s.Submitted = ok && answer.Submitted
}

// ensureAnswers repairs the answer slice of a session decoded from storage.
func (s *Session) ensureAnswers() {
	if len(s.Answers) == s.Total() {
		return
	}
	answers := make([]Answer, s.Total())
	copy(answers, s.Answers)
	s.Answers = answers
}
