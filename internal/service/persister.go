package service

import (
	"context"
	"errors"
	"fmt"

	"quizzy/internal/domain"
	"quizzy/internal/logger"
	"quizzy/internal/util"

	"go.uber.org/zap"
)

// QuizPersister writes a generated batch as one quiz. Either the whole quiz
// is stored or none of it is.
type QuizPersister struct {
	quizRepo  domain.QuizRepository
	txManager domain.TransactionManager
}

func NewQuizPersister(quizRepo domain.QuizRepository, txManager domain.TransactionManager) *QuizPersister {
	return &QuizPersister{quizRepo: quizRepo, txManager: txManager}
}

// questionInsertError remembers which question (1-based) failed.
type questionInsertError struct {
	number int
	err    error
}

func (e *questionInsertError) Error() string {
	return fmt.Sprintf("question %d: %v", e.number, e.err)
}

func (e *questionInsertError) Unwrap() error { return e.err }

// Persist stores the quiz row, then each question followed by its four
// choices, inside one transaction. On failure it returns a
// CodePersistenceFailed error carrying the failing question number.
func (p *QuizPersister) Persist(ctx context.Context, ownerID string, content domain.NormalizedContent, batch []domain.GeneratedQuestion) (*domain.Quiz, error) {
	quiz := &domain.Quiz{
		ID:            util.NewULID(),
		OwnerUserID:   ownerID,
		Title:         domain.QuizTitle(content.Text),
		Description:   domain.QuizDescription(content.SourceType),
		SourceType:    content.SourceType,
		SourceExcerpt: domain.TruncateChars(content.Text, domain.SourceExcerptChars),
		Questions:     make([]*domain.Question, 0, len(batch)),
	}
	for i, g := range batch {
		q := g.ToQuestion(i)
		q.ID = util.NewULID()
		q.QuizID = quiz.ID
		for _, c := range q.Choices {
			c.ID = util.NewULID()
			c.QuestionID = q.ID
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := quiz.Validate(); err != nil {
		return nil, domain.NewGenerationFailedError(err)
	}

	err := p.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := p.quizRepo.CreateQuiz(txCtx, quiz); err != nil {
			return &questionInsertError{number: 0, err: err}
		}
		for i, q := range quiz.Questions {
			if err := p.quizRepo.CreateQuestion(txCtx, q); err != nil {
				return &questionInsertError{number: i + 1, err: err}
			}
			for _, c := range q.Choices {
				if err := p.quizRepo.CreateChoice(txCtx, c); err != nil {
					return &questionInsertError{number: i + 1, err: err}
				}
			}
		}
		return nil
	})
	if err == nil {
		logger.Get().Info("Quiz persisted",
			zap.String("quizID", quiz.ID),
			zap.String("ownerID", ownerID),
			zap.Int("questions", len(quiz.Questions)))
		return quiz, nil
	}

	number := 0
	var insertErr *questionInsertError
	if errors.As(err, &insertErr) {
		number = insertErr.number
	}

	if errors.Is(err, domain.ErrRollbackFailed) {
		// The quiz row may have survived; remove it so cascades clear the rest.
		if delErr := p.quizRepo.DeleteQuiz(context.WithoutCancel(ctx), quiz.ID); delErr != nil {
			logger.Get().Error("Compensating delete failed; partial quiz may remain",
				zap.String("quizID", quiz.ID), zap.Error(delErr))
		}
	}

	logger.Get().Error("Failed to persist quiz",
		zap.String("quizID", quiz.ID),
		zap.Int("question_number", number),
		zap.Error(err))
	return nil, domain.NewPersistenceFailedError(number, err)
}
