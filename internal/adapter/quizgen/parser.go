package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"quizzy/internal/domain"
)

// ParseQuestionBatch strictly validates a raw model response. The batch is
// accepted only if it is a JSON array of exactly n well-formed items; the
// first failure rejects everything.
func ParseQuestionBatch(raw string, n int) ([]domain.GeneratedQuestion, error) {
	body, ok := extractJSONArray(raw)
	if !ok {
		return nil, &domain.GenerationParseError{Index: -1, Reason: "response does not contain a JSON array"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, &domain.GenerationParseError{Index: -1, Reason: fmt.Sprintf("invalid JSON array: %v", err)}
	}
	if len(items) != n {
		return nil, &domain.GenerationParseError{Index: -1, Reason: fmt.Sprintf("expected %d questions, got %d", n, len(items))}
	}

	questions := make([]domain.GeneratedQuestion, 0, n)
	for i, item := range items {
		var q domain.GeneratedQuestion
		if err := json.Unmarshal(item, &q); err != nil {
			return nil, &domain.GenerationParseError{Index: i, Reason: fmt.Sprintf("invalid item: %v", err)}
		}
		if reason := validateItem(&q); reason != "" {
			return nil, &domain.GenerationParseError{Index: i, Reason: reason}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func validateItem(q *domain.GeneratedQuestion) string {
	q.Question = strings.TrimSpace(q.Question)
	q.Explanation = strings.TrimSpace(q.Explanation)
	if q.Question == "" {
		return "question text is empty"
	}
	if len(q.Choices) != domain.ChoicesPerQuestion {
		return fmt.Sprintf("expected %d choices, got %d", domain.ChoicesPerQuestion, len(q.Choices))
	}
	for i := range q.Choices {
		q.Choices[i] = strings.TrimSpace(q.Choices[i])
		if q.Choices[i] == "" {
			return fmt.Sprintf("choice %d is empty", i)
		}
	}
	if q.CorrectIndex == nil {
		return "missing correct_index"
	}
	if *q.CorrectIndex < 0 || *q.CorrectIndex >= domain.ChoicesPerQuestion {
		return fmt.Sprintf("correct_index %d out of range", *q.CorrectIndex)
	}
	return ""
}

// extractJSONArray drops an optional <think> block, then returns the span
// between the first '[' and the last ']'.
func extractJSONArray(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return cleaned[start : end+1], true
}
