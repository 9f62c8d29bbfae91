package domain

import "time"

// QuizAttempt is one scored pass through a quiz. Score is the value the
// client computed at submission time and is never recomputed afterwards.
type QuizAttempt struct {
	ID             string
	UserID         string
	QuizID         string
	Score          int
	TotalQuestions int
	StartedAt      time.Time
	CompletedAt    time.Time
}

// AttemptAnswer is the auditable record of one selected choice.
type AttemptAnswer struct {
	AttemptID        string
	QuestionID       string
	SelectedChoiceID string
}

// AttemptSubmission is what a client sends when it finishes a quiz.
type AttemptSubmission struct {
	Answers        []AttemptAnswer
	Score          int
	TotalQuestions int
	StartedAt      time.Time
}
