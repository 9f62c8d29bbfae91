package domain

import (
	"context"
	"errors"
)

// ErrRollbackFailed marks a transaction whose rollback could not complete;
// callers must assume partial writes may remain.
var ErrRollbackFailed = errors.New("transaction rollback failed")

// QuizRepository defines the interface for quiz persistence. Read methods are
// scoped to an owner and return a nil quiz when none matches.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	CreateQuestion(ctx context.Context, question *Question) error
	CreateChoice(ctx context.Context, choice *Choice) error
	GetQuizForOwner(ctx context.Context, quizID, ownerID string) (*Quiz, error)
	ListQuizzesByOwner(ctx context.Context, ownerID string) ([]*QuizSummary, error)
	QuizExistsForOwner(ctx context.Context, quizID, ownerID string) (bool, error)
	// DeleteQuizForOwner reports whether a row was removed.
	DeleteQuizForOwner(ctx context.Context, quizID, ownerID string) (bool, error)
	// DeleteQuiz removes a quiz regardless of owner. Used for compensation.
	DeleteQuiz(ctx context.Context, quizID string) error
}

// AttemptRepository defines the interface for attempt persistence
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	CreateAnswers(ctx context.Context, answers []AttemptAnswer) error
	ListAttemptsByUser(ctx context.Context, userID string) ([]*QuizAttempt, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// TransactionManager runs fn inside one database transaction. Repositories
// called with the ctx passed to fn join the transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// QuizService is the quiz lifecycle as seen by the HTTP layer.
type QuizService interface {
	GenerateQuiz(ctx context.Context, ownerID string, content NormalizedContent, numQuestions int) (*Quiz, error)
	GetQuiz(ctx context.Context, quizID, ownerID string) (*Quiz, error)
	ListQuizzes(ctx context.Context, ownerID string) ([]*QuizSummary, error)
	DeleteQuiz(ctx context.Context, quizID, ownerID string) error
}

// AttemptService records and lists quiz attempts.
type AttemptService interface {
	SubmitAttempt(ctx context.Context, userID, quizID string, submission AttemptSubmission) (*QuizAttempt, error)
	ListAttempts(ctx context.Context, userID string) ([]*QuizAttempt, error)
}
