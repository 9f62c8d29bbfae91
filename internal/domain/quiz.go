package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ChoicesPerQuestion = 4

	MinQuestions     = 5
	MaxQuestions     = 20
	DefaultQuestions = 10

	MinContentChars = 100
	MaxContentChars = 50000

	TitleChars          = 50
	SourceExcerptChars  = 1000
	QuestionTextChars   = 1000
	ExplanationChars    = 2000
	ChoiceTextChars     = 500
	QuestionTypeDefault = "multiple_choice"
)

// SourceType records where a quiz's content came from.
type SourceType string

const (
	SourceTypeFile SourceType = "file"
	SourceTypeText SourceType = "text"
)

// Quiz is a named set of generated questions owned by one user.
type Quiz struct {
	ID            string
	OwnerUserID   string
	Title         string
	Description   string
	SourceType    SourceType
	SourceExcerpt string
	CreatedAt     time.Time
	Questions     []*Question
}

// Question belongs to exactly one quiz and carries exactly four choices.
type Question struct {
	ID          string
	QuizID      string
	Position    int
	Text        string
	Explanation string
	Type        string
	CreatedAt   time.Time
	Choices     []*Choice
}

// Choice is one of the four answer options of a question.
type Choice struct {
	ID         string
	QuestionID string
	Position   int
	Text       string
	IsCorrect  bool
}

// QuizSummary is the listing projection of a quiz.
type QuizSummary struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

var (
	ErrWrongChoiceCount   = errors.New("question must have exactly 4 choices")
	ErrWrongCorrectCount  = errors.New("question must have exactly one correct choice")
	ErrEmptyQuestionText  = errors.New("question text is empty")
	ErrNoCorrectChoice    = errors.New("question has no correct choice")
	ErrQuizHasNoQuestions = errors.New("quiz has no questions")
)

// Validate checks the choice invariant: four choices, exactly one correct.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyQuestionText
	}
	if len(q.Choices) != ChoicesPerQuestion {
		return ErrWrongChoiceCount
	}
	correct := 0
	for _, c := range q.Choices {
		if c.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return ErrWrongCorrectCount
	}
	return nil
}

// CorrectChoice returns the single correct choice.
func (q *Question) CorrectChoice() (*Choice, error) {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c, nil
		}
	}
	return nil, ErrNoCorrectChoice
}

// HasChoice reports whether choiceID is one of q's choices.
func (q *Question) HasChoice(choiceID string) bool {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return true
		}
	}
	return false
}

// Validate checks every question of the quiz.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return ErrQuizHasNoQuestions
	}
	for i, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// FindQuestion returns the question with the given id, or nil.
func (q *Quiz) FindQuestion(questionID string) *Question {
	for _, question := range q.Questions {
		if question.ID == questionID {
			return question
		}
	}
	return nil
}

// Summary returns the listing projection of q.
func (q *Quiz) Summary() *QuizSummary {
	return &QuizSummary{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		CreatedAt:   q.CreatedAt,
	}
}

// NormalizedContent is validated plain text ready for generation.
type NormalizedContent struct {
	Text       string
	SourceType SourceType
}

// QuizTitle derives a title from the first TitleChars characters of the
// source text, marking truncation with "...".
func QuizTitle(content string) string {
	title := strings.TrimSpace(TruncateChars(content, TitleChars))
	if utf8.RuneCountInString(content) > TitleChars {
		title += "..."
	}
	return title
}

// QuizDescription notes the source type of a generated quiz.
func QuizDescription(source SourceType) string {
	return fmt.Sprintf("AI-generated quiz from %s", source)
}

// TruncateChars keeps at most n characters (runes) of s.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
