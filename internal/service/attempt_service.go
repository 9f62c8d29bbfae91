package service

import (
	"context"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/grader"
	"quizzy/internal/logger"
	"quizzy/internal/util"

	"go.uber.org/zap"
)

// attemptService implements domain.AttemptService
type attemptService struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	now         func() time.Time
}

func NewAttemptService(quizRepo domain.QuizRepository, attemptRepo domain.AttemptRepository) domain.AttemptService {
	return &attemptService{quizRepo: quizRepo, attemptRepo: attemptRepo, now: time.Now}
}

// SubmitAttempt stores the attempt with the client's score. The server-side
// score is only compared and logged. Answer rows that fail to insert are
// logged and do not fail the submission.
func (s *attemptService) SubmitAttempt(ctx context.Context, userID, quizID string, submission domain.AttemptSubmission) (*domain.QuizAttempt, error) {
	quiz, err := s.quizRepo.GetQuizForOwner(ctx, quizID, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError()
	}

	completedAt := s.now()
	startedAt := submission.StartedAt
	if startedAt.IsZero() {
		startedAt = completedAt
	}
	total := submission.TotalQuestions
	if total <= 0 {
		total = len(quiz.Questions)
	}
	if submission.Score > total {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("score", submission.Score, 0, total)}
	}

	attempt := &domain.QuizAttempt{
		ID:             util.NewULID(),
		UserID:         userID,
		QuizID:         quizID,
		Score:          submission.Score,
		TotalQuestions: total,
		StartedAt:      startedAt,
		CompletedAt:    completedAt,
	}

	answers, selections := s.validAnswers(quiz, attempt.ID, submission.Answers)
	if serverScore := grader.Score(quiz.Questions, selections); serverScore != submission.Score {
		logger.Get().Warn("Submitted score differs from server grading",
			zap.String("quizID", quizID),
			zap.String("userID", userID),
			zap.Int("client_score", submission.Score),
			zap.Int("server_score", serverScore))
	}

	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("Failed to save quiz attempt", err)
	}

	if err := s.attemptRepo.CreateAnswers(ctx, answers); err != nil {
		logger.Get().Error("Failed to save attempt answers",
			zap.String("attemptID", attempt.ID),
			zap.Int("answers", len(answers)),
			zap.Error(err))
	}

	logger.Get().Info("Quiz attempt recorded",
		zap.String("attemptID", attempt.ID),
		zap.String("quizID", quizID),
		zap.Int("score", attempt.Score),
		zap.Int("total", attempt.TotalQuestions))
	return attempt, nil
}

// validAnswers keeps one answer per known question whose choice belongs to
// it; the last answer for a question wins.
func (s *attemptService) validAnswers(quiz *domain.Quiz, attemptID string, submitted []domain.AttemptAnswer) ([]domain.AttemptAnswer, map[string]string) {
	selections := make(map[string]string, len(submitted))
	order := make([]string, 0, len(submitted))
	for _, a := range submitted {
		q := quiz.FindQuestion(a.QuestionID)
		if q == nil || !q.HasChoice(a.SelectedChoiceID) {
			logger.Get().Debug("Dropping answer for unknown question or choice",
				zap.String("questionID", a.QuestionID),
				zap.String("choiceID", a.SelectedChoiceID))
			continue
		}
		if _, seen := selections[a.QuestionID]; !seen {
			order = append(order, a.QuestionID)
		}
		selections[a.QuestionID] = a.SelectedChoiceID
	}

	answers := make([]domain.AttemptAnswer, 0, len(order))
	for _, questionID := range order {
		answers = append(answers, domain.AttemptAnswer{
			AttemptID:        attemptID,
			QuestionID:       questionID,
			SelectedChoiceID: selections[questionID],
		})
	}
	return answers, selections
}

func (s *attemptService) ListAttempts(ctx context.Context, userID string) ([]*domain.QuizAttempt, error) {
	attempts, err := s.attemptRepo.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz attempts", err)
	}
	if attempts == nil {
		attempts = []*domain.QuizAttempt{}
	}
	return attempts, nil
}
