package handler_test

import (
	"context"
	"errors"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/service"
)

// --- Manual Mocks ---

const (
	testToken  = "good-token"
	testUserID = "01HZX3K4Q5R6S7T8V9W0XYZABC"
)

type MockAuthService struct {
	RegisterFunc func(ctx context.Context, email, password, name string) (*service.AuthResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*service.AuthResult, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*service.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, name)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

// ValidateJWT accepts only testToken.
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if tokenString == testToken {
		return &dto.AuthClaims{UserID: testUserID, TokenType: "access"}, nil
	}
	return nil, service.ErrInvalidJWTToken
}

type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, ownerID string, content domain.NormalizedContent, numQuestions int) (*domain.Quiz, error)
	GetQuizFunc      func(ctx context.Context, quizID, ownerID string) (*domain.Quiz, error)
	ListQuizzesFunc  func(ctx context.Context, ownerID string) ([]*domain.QuizSummary, error)
	DeleteQuizFunc   func(ctx context.Context, quizID, ownerID string) error
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, ownerID string, content domain.NormalizedContent, numQuestions int) (*domain.Quiz, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, ownerID, content, numQuestions)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, quizID, ownerID string) (*domain.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, quizID, ownerID)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) ListQuizzes(ctx context.Context, ownerID string) ([]*domain.QuizSummary, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, ownerID)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}

func (m *MockQuizService) DeleteQuiz(ctx context.Context, quizID, ownerID string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, quizID, ownerID)
	}
	panic("MockQuizService.DeleteQuizFunc not implemented")
}

type MockAttemptService struct {
	SubmitAttemptFunc func(ctx context.Context, userID, quizID string, submission domain.AttemptSubmission) (*domain.QuizAttempt, error)
	ListAttemptsFunc  func(ctx context.Context, userID string) ([]*domain.QuizAttempt, error)
}

func (m *MockAttemptService) SubmitAttempt(ctx context.Context, userID, quizID string, submission domain.AttemptSubmission) (*domain.QuizAttempt, error) {
	if m.SubmitAttemptFunc != nil {
		return m.SubmitAttemptFunc(ctx, userID, quizID, submission)
	}
	panic("MockAttemptService.SubmitAttemptFunc not implemented")
}

func (m *MockAttemptService) ListAttempts(ctx context.Context, userID string) ([]*domain.QuizAttempt, error) {
	if m.ListAttemptsFunc != nil {
		return m.ListAttemptsFunc(ctx, userID)
	}
	panic("MockAttemptService.ListAttemptsFunc not implemented")
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

var errDown = errors.New("connection refused")
