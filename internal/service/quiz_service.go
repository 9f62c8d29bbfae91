package service

import (
	"context"

	"quizzy/internal/domain"
	"quizzy/internal/logger"

	"go.uber.org/zap"
)

// quizService implements domain.QuizService
type quizService struct {
	generator domain.QuizGenerator
	persister *QuizPersister
	repo      domain.QuizRepository
	cache     *QuizCache
}

// NewQuizService creates a new instance of quizService. cache may be nil.
func NewQuizService(generator domain.QuizGenerator, persister *QuizPersister, repo domain.QuizRepository, cache *QuizCache) domain.QuizService {
	return &quizService{
		generator: generator,
		persister: persister,
		repo:      repo,
		cache:     cache,
	}
}

// GenerateQuiz runs generation and persistence on a context detached from
// the caller, so a dropped client cannot stop a save half way.
func (s *quizService) GenerateQuiz(ctx context.Context, ownerID string, content domain.NormalizedContent, numQuestions int) (*domain.Quiz, error) {
	n, ok := domain.NormalizeQuestionCount(numQuestions)
	if !ok {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("numQuestions", numQuestions, domain.MinQuestions, domain.MaxQuestions)}
	}

	workCtx := context.WithoutCancel(ctx)

	batch, err := s.generator.GenerateQuestions(workCtx, content.Text, n)
	if err != nil {
		logger.Get().Error("Quiz generation failed",
			zap.String("ownerID", ownerID),
			zap.Int("requested", n),
			zap.Error(err))
		if domain.HasCode(err, domain.CodeLLMServiceError) {
			return nil, err
		}
		return nil, domain.NewGenerationFailedError(err)
	}

	quiz, err := s.persister.Persist(workCtx, ownerID, content, batch)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateList(workCtx, ownerID)
	return quiz, nil
}

// GetQuiz returns a not-found error both for missing quizzes and for quizzes
// owned by someone else.
func (s *quizService) GetQuiz(ctx context.Context, quizID, ownerID string) (*domain.Quiz, error) {
	quiz, err := s.cache.GetQuiz(ctx, quizID, ownerID, func(ctx context.Context) (*domain.Quiz, error) {
		return s.repo.GetQuizForOwner(ctx, quizID, ownerID)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError()
	}
	return quiz, nil
}

func (s *quizService) ListQuizzes(ctx context.Context, ownerID string) ([]*domain.QuizSummary, error) {
	summaries, err := s.cache.GetQuizList(ctx, ownerID, func(ctx context.Context) ([]*domain.QuizSummary, error) {
		return s.repo.ListQuizzesByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}
	if summaries == nil {
		summaries = []*domain.QuizSummary{}
	}
	return summaries, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, quizID, ownerID string) error {
	deleted, err := s.repo.DeleteQuizForOwner(ctx, quizID, ownerID)
	if err != nil {
		return domain.NewInternalError("Failed to delete quiz", err)
	}
	if !deleted {
		return domain.NewQuizNotFoundError()
	}
	s.cache.InvalidateQuiz(ctx, quizID, ownerID)
	logger.Get().Info("Quiz deleted", zap.String("quizID", quizID), zap.String("ownerID", ownerID))
	return nil
}
