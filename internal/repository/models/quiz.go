package models

import (
	"database/sql"
	"time"
)

// Quiz represents a row of the quizzes table.
type Quiz struct {
	ID            string    `db:"id"`
	OwnerUserID   string    `db:"owner_user_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	SourceType    string    `db:"source_type"`
	SourceExcerpt string    `db:"source_excerpt"`
	CreatedAt     time.Time `db:"created_at"`
}

// QuizSummary is the listing projection of the quizzes table.
type QuizSummary struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Question represents a row of the questions table.
type Question struct {
	ID           string         `db:"id"`
	QuizID       string         `db:"quiz_id"`
	Position     int            `db:"position"`
	QuestionText string         `db:"question_text"`
	Explanation  sql.NullString `db:"explanation"`
	QuestionType string         `db:"question_type"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Choice represents a row of the choices table.
type Choice struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	Position   int    `db:"position"`
	ChoiceText string `db:"choice_text"`
	IsCorrect  bool   `db:"is_correct"`
}
