package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizzy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAttemptService(now time.Time) (*attemptService, *MockQuizRepository, *MockAttemptRepository) {
	quizRepo := new(MockQuizRepository)
	attemptRepo := new(MockAttemptRepository)
	svc := NewAttemptService(quizRepo, attemptRepo).(*attemptService)
	svc.now = func() time.Time { return now }
	return svc, quizRepo, attemptRepo
}

func TestAttemptService_SubmitAttempt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, quizRepo, attemptRepo := newTestAttemptService(now)
	ctx := context.Background()
	quiz := sampleQuiz("quiz-1", "user-1")
	started := now.Add(-5 * time.Minute)

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(quiz, nil).Once()
	attemptRepo.On("CreateAttempt", ctx, mock.AnythingOfType("*domain.QuizAttempt")).Return(nil).Once()
	attemptRepo.On("CreateAnswers", ctx, mock.MatchedBy(func(answers []domain.AttemptAnswer) bool {
		return len(answers) == 2 && answers[0].QuestionID == "quiz-1-q0" && answers[1].SelectedChoiceID == "quiz-1-q1-c2"
	})).Return(nil).Once()

	attempt, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", domain.AttemptSubmission{
		Answers: []domain.AttemptAnswer{
			{QuestionID: "quiz-1-q0", SelectedChoiceID: "quiz-1-q0-c0"},
			{QuestionID: "quiz-1-q1", SelectedChoiceID: "quiz-1-q1-c2"},
			{QuestionID: "unknown", SelectedChoiceID: "x"},
			{QuestionID: "quiz-1-q2", SelectedChoiceID: "quiz-1-q0-c0"},
		},
		Score:          1,
		TotalQuestions: 3,
		StartedAt:      started,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, 1, attempt.Score)
	assert.Equal(t, 3, attempt.TotalQuestions)
	assert.Equal(t, started, attempt.StartedAt)
	assert.Equal(t, now, attempt.CompletedAt)
	attemptRepo.AssertExpectations(t)
}

func TestAttemptService_SubmitAttempt_NoAnswers(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, quizRepo, attemptRepo := newTestAttemptService(now)
	ctx := context.Background()

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(sampleQuiz("quiz-1", "user-1"), nil).Once()
	attemptRepo.On("CreateAttempt", ctx, mock.Anything).Return(nil).Once()
	attemptRepo.On("CreateAnswers", ctx, []domain.AttemptAnswer{}).Return(nil).Once()

	attempt, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", domain.AttemptSubmission{})

	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 3, attempt.TotalQuestions)
	assert.Equal(t, now, attempt.CompletedAt)
	assert.Equal(t, now, attempt.StartedAt)
}

func TestAttemptService_SubmitAttempt_TwiceCreatesTwoAttempts(t *testing.T) {
	svc, quizRepo, attemptRepo := newTestAttemptService(time.Now())
	ctx := context.Background()
	quiz := sampleQuiz("quiz-1", "user-1")
	submission := domain.AttemptSubmission{
		Answers: []domain.AttemptAnswer{{QuestionID: "quiz-1-q0", SelectedChoiceID: "quiz-1-q0-c0"}},
		Score:   1,
	}

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(quiz, nil).Twice()
	attemptRepo.On("CreateAttempt", ctx, mock.Anything).Return(nil).Twice()
	attemptRepo.On("CreateAnswers", ctx, mock.Anything).Return(nil).Twice()

	first, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", submission)
	require.NoError(t, err)
	second, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", submission)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Score, second.Score)
}

// The client's score is stored even when it disagrees with the answers.
func TestAttemptService_SubmitAttempt_StoresClientScore(t *testing.T) {
	svc, quizRepo, attemptRepo := newTestAttemptService(time.Now())
	ctx := context.Background()

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(sampleQuiz("quiz-1", "user-1"), nil).Once()
	attemptRepo.On("CreateAttempt", ctx, mock.MatchedBy(func(a *domain.QuizAttempt) bool {
		return a.Score == 3
	})).Return(nil).Once()
	attemptRepo.On("CreateAnswers", ctx, mock.Anything).Return(nil).Once()

	attempt, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", domain.AttemptSubmission{Score: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, attempt.Score)
}

func TestAttemptService_SubmitAttempt_ScoreAboveQuizLength(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, quizRepo, attemptRepo := newTestAttemptService(now)
	ctx := context.Background()

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(sampleQuiz("quiz-1", "user-1"), nil).Once()

	attempt, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", domain.AttemptSubmission{Score: 5})

	assert.Nil(t, attempt)
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "score", verrs[0].Field)
	assert.Equal(t, domain.CodeOutOfRange, verrs[0].Code)
	attemptRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestAttemptService_SubmitAttempt_QuizNotOwned(t *testing.T) {
	svc, quizRepo, attemptRepo := newTestAttemptService(time.Now())
	ctx := context.Background()
	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "intruder").Return(nil, nil).Once()

	_, err := svc.SubmitAttempt(ctx, "intruder", "quiz-1", domain.AttemptSubmission{})

	assert.True(t, domain.HasCode(err, domain.CodeQuizNotFound))
	attemptRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestAttemptService_SubmitAttempt_AnswerFailureIsSwallowed(t *testing.T) {
	svc, quizRepo, attemptRepo := newTestAttemptService(time.Now())
	ctx := context.Background()

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(sampleQuiz("quiz-1", "user-1"), nil).Once()
	attemptRepo.On("CreateAttempt", ctx, mock.Anything).Return(nil).Once()
	attemptRepo.On("CreateAnswers", ctx, mock.Anything).Return(errors.New("fk violation")).Once()

	attempt, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", domain.AttemptSubmission{
		Answers: []domain.AttemptAnswer{{QuestionID: "quiz-1-q0", SelectedChoiceID: "quiz-1-q0-c1"}},
	})

	require.NoError(t, err)
	assert.NotNil(t, attempt)
}

func TestAttemptService_SubmitAttempt_AttemptInsertFails(t *testing.T) {
	svc, quizRepo, attemptRepo := newTestAttemptService(time.Now())
	ctx := context.Background()

	quizRepo.On("GetQuizForOwner", ctx, "quiz-1", "user-1").Return(sampleQuiz("quiz-1", "user-1"), nil).Once()
	attemptRepo.On("CreateAttempt", ctx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := svc.SubmitAttempt(ctx, "user-1", "quiz-1", domain.AttemptSubmission{})

	assert.True(t, domain.HasCode(err, domain.CodeInternal))
	attemptRepo.AssertNotCalled(t, "CreateAnswers", mock.Anything, mock.Anything)
}

func TestAttemptService_ListAttempts(t *testing.T) {
	svc, _, attemptRepo := newTestAttemptService(time.Now())
	ctx := context.Background()

	attemptRepo.On("ListAttemptsByUser", ctx, "user-1").Return(nil, nil).Once()

	attempts, err := svc.ListAttempts(ctx, "user-1")

	require.NoError(t, err)
	assert.NotNil(t, attempts)
	assert.Empty(t, attempts)
}
