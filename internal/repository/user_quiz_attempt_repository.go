package repository

import (
	"context"
	"fmt"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/repository/models"
	"quizzy/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxUserQuizAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxUserQuizAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXUserQuizAttemptRepository creates a new instance of sqlxUserQuizAttemptRepository.
func NewSQLXUserQuizAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxUserQuizAttemptRepository{db: db}
}

// CreateAttempt inserts the attempt with the score exactly as given.
func (r *sqlxUserQuizAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = time.Now()
	}
	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = attempt.CompletedAt
	}

	query := `INSERT INTO quiz_attempts (id, user_id, quiz_id, score, total_questions, started_at, completed_at)
		VALUES (:id, :user_id, :quiz_id, :score, :total_questions, :started_at, :completed_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainAttempt(attempt)); err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}

// CreateAnswers bulk-inserts the answers in one statement.
func (r *sqlxUserQuizAttemptRepository) CreateAnswers(ctx context.Context, answers []domain.AttemptAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	rows := make([]models.AttemptAnswer, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, models.AttemptAnswer{
			AttemptID:        a.AttemptID,
			QuestionID:       a.QuestionID,
			SelectedChoiceID: a.SelectedChoiceID,
		})
	}

	query := `INSERT INTO attempt_answers (attempt_id, question_id, selected_choice_id)
		VALUES (:attempt_id, :question_id, :selected_choice_id)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("failed to create attempt answers: %w", err)
	}
	return nil
}

// ListAttemptsByUser returns the user's attempts newest first.
func (r *sqlxUserQuizAttemptRepository) ListAttemptsByUser(ctx context.Context, userID string) ([]*domain.QuizAttempt, error) {
	var rows []models.QuizAttempt
	query := `SELECT id, user_id, quiz_id, score, total_questions, started_at, completed_at
		FROM quiz_attempts WHERE user_id = $1 ORDER BY completed_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}

	attempts := make([]*domain.QuizAttempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, toDomainAttempt(&rows[i]))
	}
	return attempts, nil
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	return &domain.QuizAttempt{
		ID:             m.ID,
		UserID:         m.UserID,
		QuizID:         m.QuizID,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
	}
}

func fromDomainAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	if a == nil {
		return nil
	}
	return &models.QuizAttempt{
		ID:             a.ID,
		UserID:         a.UserID,
		QuizID:         a.QuizID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		StartedAt:      a.StartedAt,
		CompletedAt:    a.CompletedAt,
	}
}
