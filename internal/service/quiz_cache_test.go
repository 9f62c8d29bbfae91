package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quizzy/internal/cache"
	"quizzy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizCache_GetQuiz_CacheAside(t *testing.T) {
	backend := newMemoryCache()
	qc := NewQuizCache(backend, time.Minute)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (*domain.Quiz, error) {
		loads++
		return sampleQuiz("quiz-1", "owner-1"), nil
	}

	first, err := qc.GetQuiz(ctx, "quiz-1", "owner-1", load)
	require.NoError(t, err)
	second, err := qc.GetQuiz(ctx, "quiz-1", "owner-1", load)
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Questions, 3)
	assert.True(t, second.Questions[0].Choices[0].IsCorrect)
	assert.True(t, backend.has(cache.QuizDetailKey("quiz-1", "owner-1")))
}

func TestQuizCache_GetQuiz_NilNotCached(t *testing.T) {
	backend := newMemoryCache()
	qc := NewQuizCache(backend, time.Minute)

	quiz, err := qc.GetQuiz(context.Background(), "missing", "owner-1", func(context.Context) (*domain.Quiz, error) {
		return nil, nil
	})

	require.NoError(t, err)
	assert.Nil(t, quiz)
	assert.Equal(t, 0, backend.sets)
}

func TestQuizCache_GetQuiz_LoaderError(t *testing.T) {
	qc := NewQuizCache(newMemoryCache(), time.Minute)
	loadErr := errors.New("db down")

	_, err := qc.GetQuiz(context.Background(), "quiz-1", "owner-1", func(context.Context) (*domain.Quiz, error) {
		return nil, loadErr
	})

	assert.ErrorIs(t, err, loadErr)
}

func TestQuizCache_BackendFailureFallsThrough(t *testing.T) {
	backend := newMemoryCache()
	backend.getErr = errors.New("redis unavailable")
	qc := NewQuizCache(backend, time.Minute)

	quiz, err := qc.GetQuiz(context.Background(), "quiz-1", "owner-1", func(context.Context) (*domain.Quiz, error) {
		return sampleQuiz("quiz-1", "owner-1"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, "quiz-1", quiz.ID)
}

func TestQuizCache_UndecodableEntryReloads(t *testing.T) {
	backend := newMemoryCache()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, cache.QuizListKey("owner-1"), "{not json", 0))
	qc := NewQuizCache(backend, time.Minute)

	list, err := qc.GetQuizList(ctx, "owner-1", func(context.Context) ([]*domain.QuizSummary, error) {
		return []*domain.QuizSummary{{ID: "quiz-1"}}, nil
	})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "quiz-1", list[0].ID)
}

func TestQuizCache_ConcurrentMissesCollapse(t *testing.T) {
	qc := NewQuizCache(newMemoryCache(), time.Minute)
	ctx := context.Background()

	var loads int32
	release := make(chan struct{})
	load := func(context.Context) ([]*domain.QuizSummary, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return []*domain.QuizSummary{{ID: "quiz-1"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := qc.GetQuizList(ctx, "owner-1", load)
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(5))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&loads), int32(1))
}

func TestQuizCache_Invalidate(t *testing.T) {
	backend := newMemoryCache()
	qc := NewQuizCache(backend, time.Minute)
	ctx := context.Background()

	qc.InvalidateQuiz(ctx, "quiz-1", "owner-1")
	qc.InvalidateList(ctx, "owner-1")

	require.Len(t, backend.deletes, 2)
	assert.Equal(t, []string{cache.QuizDetailKey("quiz-1", "owner-1"), cache.QuizListKey("owner-1")}, backend.deletes[0])
	assert.Equal(t, []string{cache.QuizListKey("owner-1")}, backend.deletes[1])
}

func TestQuizCache_InvalidateDuringLoadSkipsFill(t *testing.T) {
	backend := newMemoryCache()
	qc := NewQuizCache(backend, time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		quiz, err := qc.GetQuiz(ctx, "quiz-1", "owner-1", func(context.Context) (*domain.Quiz, error) {
			close(started)
			<-release
			return sampleQuiz("quiz-1", "owner-1"), nil
		})
		assert.NoError(t, err)
		assert.NotNil(t, quiz)
	}()

	<-started
	qc.InvalidateQuiz(ctx, "quiz-1", "owner-1")
	close(release)
	<-done

	assert.False(t, backend.has(cache.QuizDetailKey("quiz-1", "owner-1")))
	quiz, err := qc.GetQuiz(ctx, "quiz-1", "owner-1", func(context.Context) (*domain.Quiz, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, quiz)
}

func TestQuizCache_InvalidateListDuringLoadSkipsFill(t *testing.T) {
	backend := newMemoryCache()
	qc := NewQuizCache(backend, time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := qc.GetQuizList(ctx, "owner-1", func(context.Context) ([]*domain.QuizSummary, error) {
			close(started)
			<-release
			return []*domain.QuizSummary{{ID: "quiz-1"}}, nil
		})
		assert.NoError(t, err)
	}()

	<-started
	qc.InvalidateList(ctx, "owner-1")
	close(release)
	<-done

	assert.False(t, backend.has(cache.QuizListKey("owner-1")))
	list, err := qc.GetQuizList(ctx, "owner-1", func(context.Context) ([]*domain.QuizSummary, error) {
		return []*domain.QuizSummary{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestQuizCache_Disabled(t *testing.T) {
	var nilCache *QuizCache
	ctx := context.Background()
	loads := 0
	load := func(context.Context) (*domain.Quiz, error) {
		loads++
		return sampleQuiz("quiz-1", "owner-1"), nil
	}

	_, err := nilCache.GetQuiz(ctx, "quiz-1", "owner-1", load)
	require.NoError(t, err)
	_, err = NewQuizCache(nil, 0).GetQuiz(ctx, "quiz-1", "owner-1", load)
	require.NoError(t, err)
	nilCache.InvalidateList(ctx, "owner-1")

	assert.Equal(t, 2, loads)
}
