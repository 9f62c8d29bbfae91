package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/repository/models"
	"quizzy/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}

	query := `INSERT INTO quizzes (id, owner_user_id, title, description, source_type, source_excerpt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		quiz.ID, quiz.OwnerUserID, quiz.Title, quiz.Description,
		string(quiz.SourceType), quiz.SourceExcerpt, quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

// CreateQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if question.ID == "" {
		question.ID = util.NewULID()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	m := fromDomainQuestion(question)

	query := `INSERT INTO questions (id, quiz_id, position, question_text, explanation, question_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.ID, m.QuizID, m.Position, m.QuestionText, m.Explanation, m.QuestionType, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

// CreateChoice implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateChoice(ctx context.Context, choice *domain.Choice) error {
	if choice.ID == "" {
		choice.ID = util.NewULID()
	}

	query := `INSERT INTO choices (id, question_id, position, choice_text, is_correct)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		choice.ID, choice.QuestionID, choice.Position, choice.Text, choice.IsCorrect)
	if err != nil {
		return fmt.Errorf("failed to insert choice: %w", err)
	}
	return nil
}

// GetQuizForOwner returns the quiz with its questions and choices in
// position order, or nil when no quiz with that id belongs to ownerID.
func (a *QuizDatabaseAdapter) GetQuizForOwner(ctx context.Context, quizID, ownerID string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var modelQuiz models.Quiz
	query := `SELECT id, owner_user_id, title, description, source_type, source_excerpt, created_at
		FROM quizzes WHERE id = $1 AND owner_user_id = $2`
	if err := exec.GetContext(ctx, &modelQuiz, query, quizID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	var modelQuestions []models.Question
	query = `SELECT id, quiz_id, position, question_text, explanation, question_type, created_at
		FROM questions WHERE quiz_id = $1 ORDER BY position`
	if err := exec.SelectContext(ctx, &modelQuestions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	var modelChoices []models.Choice
	query = `SELECT c.id, c.question_id, c.position, c.choice_text, c.is_correct
		FROM choices c JOIN questions q ON q.id = c.question_id
		WHERE q.quiz_id = $1 ORDER BY q.position, c.position`
	if err := exec.SelectContext(ctx, &modelChoices, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}

	return assembleQuiz(&modelQuiz, modelQuestions, modelChoices), nil
}

// ListQuizzesByOwner returns summaries newest first.
func (a *QuizDatabaseAdapter) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]*domain.QuizSummary, error) {
	var rows []models.QuizSummary
	query := `SELECT id, title, description, created_at
		FROM quizzes WHERE owner_user_id = $1 ORDER BY created_at DESC`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]*domain.QuizSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, &domain.QuizSummary{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			CreatedAt:   r.CreatedAt,
		})
	}
	return summaries, nil
}

// QuizExistsForOwner implements domain.QuizRepository
func (a *QuizDatabaseAdapter) QuizExistsForOwner(ctx context.Context, quizID, ownerID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM quizzes WHERE id = $1 AND owner_user_id = $2)`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &exists, query, quizID, ownerID); err != nil {
		return false, fmt.Errorf("failed to check quiz ownership: %w", err)
	}
	return exists, nil
}

// DeleteQuizForOwner relies on ON DELETE CASCADE for questions, choices and
// attempts.
func (a *QuizDatabaseAdapter) DeleteQuizForOwner(ctx context.Context, quizID, ownerID string) (bool, error) {
	query := `DELETE FROM quizzes WHERE id = $1 AND owner_user_id = $2`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, quizID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, quizID string) error {
	query := `DELETE FROM quizzes WHERE id = $1`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, quizID); err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", quizID, err)
	}
	return nil
}

func assembleQuiz(m *models.Quiz, questions []models.Question, choices []models.Choice) *domain.Quiz {
	quiz := toDomainQuiz(m)
	byID := make(map[string]*domain.Question, len(questions))
	for i := range questions {
		q := toDomainQuestion(&questions[i])
		byID[q.ID] = q
		quiz.Questions = append(quiz.Questions, q)
	}
	for i := range choices {
		if q, ok := byID[choices[i].QuestionID]; ok {
			q.Choices = append(q.Choices, toDomainChoice(&choices[i]))
		}
	}
	return quiz
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:            m.ID,
		OwnerUserID:   m.OwnerUserID,
		Title:         m.Title,
		Description:   m.Description,
		SourceType:    domain.SourceType(m.SourceType),
		SourceExcerpt: m.SourceExcerpt,
		CreatedAt:     m.CreatedAt,
		Questions:     []*domain.Question{},
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:          m.ID,
		QuizID:      m.QuizID,
		Position:    m.Position,
		Text:        m.QuestionText,
		Explanation: util.NullStringValue(m.Explanation),
		Type:        m.QuestionType,
		CreatedAt:   m.CreatedAt,
		Choices:     make([]*domain.Choice, 0, domain.ChoicesPerQuestion),
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	questionType := q.Type
	if questionType == "" {
		questionType = domain.QuestionTypeDefault
	}
	return &models.Question{
		ID:           q.ID,
		QuizID:       q.QuizID,
		Position:     q.Position,
		QuestionText: q.Text,
		Explanation:  util.StringToNullString(q.Explanation),
		QuestionType: questionType,
		CreatedAt:    q.CreatedAt,
	}
}

func toDomainChoice(m *models.Choice) *domain.Choice {
	return &domain.Choice{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Position:   m.Position,
		Text:       m.ChoiceText,
		IsCorrect:  m.IsCorrect,
	}
}
