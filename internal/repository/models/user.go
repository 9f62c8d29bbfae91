package models

import "time"

// User represents a row of the users table.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// QuizAttempt represents a row of the quiz_attempts table.
type QuizAttempt struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	QuizID         string    `db:"quiz_id"`
	Score          int       `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	StartedAt      time.Time `db:"started_at"`
	CompletedAt    time.Time `db:"completed_at"`
}

// AttemptAnswer represents a row of the attempt_answers table.
type AttemptAnswer struct {
	AttemptID        string `db:"attempt_id"`
	QuestionID       string `db:"question_id"`
	SelectedChoiceID string `db:"selected_choice_id"`
}
