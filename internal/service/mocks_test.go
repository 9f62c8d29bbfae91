package service

import (
	"context"
	"sync"
	"time"

	"quizzy/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateChoice(ctx context.Context, choice *domain.Choice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizForOwner(ctx context.Context, quizID, ownerID string) (*domain.Quiz, error) {
	args := m.Called(ctx, quizID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]*domain.QuizSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizSummary), args.Error(1)
}

func (m *MockQuizRepository) QuizExistsForOwner(ctx context.Context, quizID, ownerID string) (bool, error) {
	args := m.Called(ctx, quizID, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuizForOwner(ctx context.Context, quizID, ownerID string) (bool, error) {
	args := m.Called(ctx, quizID, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) CreateAnswers(ctx context.Context, answers []domain.AttemptAnswer) error {
	args := m.Called(ctx, answers)
	return args.Error(0)
}

func (m *MockAttemptRepository) ListAttemptsByUser(ctx context.Context, userID string) ([]*domain.QuizAttempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizAttempt), args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- fakeTxManager ---
// fakeTxManager runs fn on the caller's context. wrap, when set, replaces
// the error fn returns, the way a failed rollback would.
type fakeTxManager struct {
	calls int
	wrap  func(err error) error
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.calls++
	err := fn(ctx)
	if err != nil && m.wrap != nil {
		return m.wrap(err)
	}
	return err
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuestions(ctx context.Context, content string, n int) ([]domain.GeneratedQuestion, error) {
	args := m.Called(ctx, content, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedQuestion), args.Error(1)
}

// --- memoryCache ---
// memoryCache is an in-process domain.Cache that counts calls.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]string
	gets    int
	sets    int
	deletes [][]string
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.items[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.items[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, keys)
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// --- fixtures ---

func intPtr(i int) *int { return &i }

func generatedBatch(n int) []domain.GeneratedQuestion {
	batch := make([]domain.GeneratedQuestion, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, domain.GeneratedQuestion{
			Question:     "What is covered in section " + string(rune('A'+i)) + "?",
			Choices:      []string{"first", "second", "third", "fourth"},
			CorrectIndex: intPtr(i % domain.ChoicesPerQuestion),
			Explanation:  "Because the text says so.",
		})
	}
	return batch
}

func sampleContent() domain.NormalizedContent {
	text := ""
	for len(text) < 300 {
		text += "Photosynthesis converts light energy into chemical energy in plants. "
	}
	return domain.NormalizedContent{Text: text, SourceType: domain.SourceTypeText}
}

func sampleQuiz(id, owner string) *domain.Quiz {
	quiz := &domain.Quiz{ID: id, OwnerUserID: owner, Title: "Sample", SourceType: domain.SourceTypeText}
	for i := 0; i < 3; i++ {
		qID := id + "-q" + string(rune('0'+i))
		q := &domain.Question{ID: qID, QuizID: id, Position: i, Text: "Q?", Type: domain.QuestionTypeDefault}
		for c := 0; c < domain.ChoicesPerQuestion; c++ {
			q.Choices = append(q.Choices, &domain.Choice{
				ID:         qID + "-c" + string(rune('0'+c)),
				QuestionID: qID,
				Position:   c,
				Text:       "choice",
				IsCorrect:  c == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}
