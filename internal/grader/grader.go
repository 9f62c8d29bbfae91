// Package grader implements the quiz-taking state machine: moving between
// questions, selecting answers, submitting and scoring.
package grader

import (
	"errors"
	"math"

	"quizzy/internal/domain"
)

// State is the phase of a quiz session.
type State int

const (
	InProgress State = iota
	Submitted
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrNoQuestions     = errors.New("quiz has no questions")
	ErrNotInProgress   = errors.New("quiz session is already submitted")
	ErrUnknownQuestion = errors.New("question does not belong to this quiz")
	ErrUnknownChoice   = errors.New("choice does not belong to this question")
)

// Session tracks one pass through a quiz. It is not safe for concurrent use.
type Session struct {
	questions []*domain.Question
	byID      map[string]*domain.Question
	state     State
	current   int
	answers   map[string]string
	score     int
}

// NewSession starts an in-progress session at the first question.
func NewSession(questions []*domain.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return &Session{
		questions: questions,
		byID:      byID,
		answers:   make(map[string]string),
	}, nil
}

func (s *Session) State() State { return s.state }
func (s *Session) CurrentIndex() int { return s.current }
func (s *Session) TotalQuestions() int { return len(s.questions) }

func (s *Session) CurrentQuestion() *domain.Question {
	return s.questions[s.current]
}

// Score is 0 until the session is submitted.
func (s *Session) Score() int { return s.score }

// SelectAnswer records choiceID for questionID, replacing any earlier pick.
func (s *Session) SelectAnswer(questionID, choiceID string) error {
	if s.state != InProgress {
		return ErrNotInProgress
	}
	q, ok := s.byID[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	if !q.HasChoice(choiceID) {
		return ErrUnknownChoice
	}
	s.answers[questionID] = choiceID
	return nil
}

// Selection returns the choice picked for questionID, if any.
func (s *Session) Selection(questionID string) (string, bool) {
	choiceID, ok := s.answers[questionID]
	return choiceID, ok
}

// Answers returns a copy of the current selections keyed by question id.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *Session) AnsweredCount() int { return len(s.answers) }

// Next moves forward one question and stays put on the last one.
func (s *Session) Next() {
	if s.current < len(s.questions)-1 {
		s.current++
	}
}

// Previous moves back one question and stays put on the first one.
func (s *Session) Previous() {
	if s.current > 0 {
		s.current--
	}
}

// Submit scores the current selections. Unanswered questions are allowed and
// count as wrong.
func (s *Session) Submit() (int, error) {
	if s.state != InProgress {
		return 0, ErrNotInProgress
	}
	s.score = Score(s.questions, s.answers)
	s.state = Submitted
	return s.score, nil
}

// Reset starts a fresh attempt over the same questions.
func (s *Session) Reset() {
	s.state = InProgress
	s.current = 0
	s.answers = make(map[string]string)
	s.score = 0
}

// Progress is the position through the quiz as a percentage, counting the
// current question as reached.
func (s *Session) Progress() float64 {
	return float64(s.current+1) / float64(len(s.questions)) * 100
}

// ReviewItem compares the selected and correct choice of one question.
type ReviewItem struct {
	Question         *domain.Question
	SelectedChoiceID string
	CorrectChoiceID  string
	Answered         bool
	Correct          bool
}

// Review lists every question in order with its selected and correct choice.
func (s *Session) Review() []ReviewItem {
	items := make([]ReviewItem, 0, len(s.questions))
	for _, q := range s.questions {
		item := ReviewItem{Question: q}
		if correct, err := q.CorrectChoice(); err == nil {
			item.CorrectChoiceID = correct.ID
		}
		item.SelectedChoiceID, item.Answered = s.answers[q.ID]
		item.Correct = item.Answered && item.CorrectChoiceID != "" && item.SelectedChoiceID == item.CorrectChoiceID
		items = append(items, item)
	}
	return items
}

// Score counts the questions whose selected choice is the correct one.
// Selections for unknown questions are ignored.
func Score(questions []*domain.Question, selections map[string]string) int {
	score := 0
	for _, q := range questions {
		selected, ok := selections[q.ID]
		if !ok {
			continue
		}
		correct, err := q.CorrectChoice()
		if err != nil {
			continue
		}
		if selected == correct.ID {
			score++
		}
	}
	return score
}

// Percentage rounds score/total to a whole percent; 0 when total is 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
