package domain

import (
	"context"
	"fmt"
)

// GeneratedQuestion is one question as returned by the text-generation model,
// before it is assigned ids and persisted.
type GeneratedQuestion struct {
	Question     string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex *int     `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// GenerationParseError rejects a whole generated batch. Index is the 0-based
// offending item, or -1 when the batch as a whole is malformed.
type GenerationParseError struct {
	Index  int
	Reason string
}

func (e *GenerationParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("generation parse error: %s", e.Reason)
	}
	return fmt.Sprintf("generation parse error at item %d: %s", e.Index, e.Reason)
}

// QuizGenerator turns normalized text into exactly n validated questions.
type QuizGenerator interface {
	GenerateQuestions(ctx context.Context, content string, n int) ([]GeneratedQuestion, error)
}

// ToQuestion converts a validated generated item into an unsaved Question at
// the given 0-based position, applying the stored field length limits.
func (g GeneratedQuestion) ToQuestion(position int) *Question {
	q := &Question{
		Position:    position,
		Text:        TruncateChars(g.Question, QuestionTextChars),
		Explanation: TruncateChars(g.Explanation, ExplanationChars),
		Type:        QuestionTypeDefault,
		Choices:     make([]*Choice, 0, len(g.Choices)),
	}
	for i, text := range g.Choices {
		q.Choices = append(q.Choices, &Choice{
			Position:  i,
			Text:      TruncateChars(text, ChoiceTextChars),
			IsCorrect: g.CorrectIndex != nil && *g.CorrectIndex == i,
		})
	}
	return q
}

// NormalizeQuestionCount applies the default for a zero count and reports
// whether n is within the accepted range.
func NormalizeQuestionCount(n int) (int, bool) {
	if n == 0 {
		return DefaultQuestions, true
	}
	return n, n >= MinQuestions && n <= MaxQuestions
}
