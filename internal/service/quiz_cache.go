package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"quizzy/internal/cache"
	"quizzy/internal/domain"
	"quizzy/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultQuizCacheTTL = 10 * time.Minute

// QuizCache is a cache-aside layer for quiz reads. Cache failures are logged
// and fall through to the loader. A nil *QuizCache or nil backend disables
// caching.
//
// Each key carries a generation bumped by invalidation. A load that started
// before an invalidation is returned to its callers but never written back.
type QuizCache struct {
	cache   domain.Cache
	ttl     time.Duration
	sfGroup singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

func NewQuizCache(c domain.Cache, ttl time.Duration) *QuizCache {
	if ttl <= 0 {
		ttl = DefaultQuizCacheTTL
	}
	return &QuizCache{cache: c, ttl: ttl, gen: make(map[string]uint64)}
}

func (qc *QuizCache) enabled() bool {
	return qc != nil && qc.cache != nil
}

// GetQuiz returns the owner's quiz, loading it on a miss. A nil result from
// load is not cached.
func (qc *QuizCache) GetQuiz(ctx context.Context, quizID, ownerID string, load func(context.Context) (*domain.Quiz, error)) (*domain.Quiz, error) {
	if !qc.enabled() {
		return load(ctx)
	}
	key := cache.QuizDetailKey(quizID, ownerID)

	var quiz domain.Quiz
	if qc.read(ctx, key, &quiz) {
		return &quiz, nil
	}

	v, err, _ := qc.sfGroup.Do(key, func() (interface{}, error) {
		gen := qc.generation(key)
		loaded, err := load(ctx)
		if err != nil || loaded == nil {
			return loaded, err
		}
		qc.fill(ctx, key, gen, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	loaded, _ := v.(*domain.Quiz)
	return loaded, nil
}

// GetQuizList returns the owner's quiz summaries, loading them on a miss.
func (qc *QuizCache) GetQuizList(ctx context.Context, ownerID string, load func(context.Context) ([]*domain.QuizSummary, error)) ([]*domain.QuizSummary, error) {
	if !qc.enabled() {
		return load(ctx)
	}
	key := cache.QuizListKey(ownerID)

	var summaries []*domain.QuizSummary
	if qc.read(ctx, key, &summaries) {
		return summaries, nil
	}

	v, err, _ := qc.sfGroup.Do(key, func() (interface{}, error) {
		gen := qc.generation(key)
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		qc.fill(ctx, key, gen, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	loaded, _ := v.([]*domain.QuizSummary)
	return loaded, nil
}

// InvalidateList drops the owner's cached quiz list.
func (qc *QuizCache) InvalidateList(ctx context.Context, ownerID string) {
	qc.invalidate(ctx, cache.QuizListKey(ownerID))
}

// InvalidateQuiz drops a cached quiz and the owner's list.
func (qc *QuizCache) InvalidateQuiz(ctx context.Context, quizID, ownerID string) {
	qc.invalidate(ctx, cache.QuizDetailKey(quizID, ownerID), cache.QuizListKey(ownerID))
}

func (qc *QuizCache) invalidate(ctx context.Context, keys ...string) {
	if !qc.enabled() {
		return
	}
	qc.mu.Lock()
	for _, key := range keys {
		qc.gen[key]++
		qc.sfGroup.Forget(key)
	}
	qc.mu.Unlock()
	if err := qc.cache.Delete(ctx, keys...); err != nil {
		logger.Get().Warn("QuizCache: failed to invalidate keys", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (qc *QuizCache) generation(key string) uint64 {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.gen[key]
}

// fill writes value unless key was invalidated after gen was taken. The
// check and the write share the lock so a concurrent invalidate either
// skips the write or deletes it afterwards.
func (qc *QuizCache) fill(ctx context.Context, key string, gen uint64, value interface{}) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	if qc.gen[key] != gen {
		logger.Get().Debug("QuizCache: skipping fill for invalidated key", zap.String("key", key))
		return
	}
	qc.write(ctx, key, value)
}

func (qc *QuizCache) read(ctx context.Context, key string, dest interface{}) bool {
	raw, err := qc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("QuizCache: cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Get().Warn("QuizCache: discarding undecodable entry", zap.String("key", key), zap.Error(err))
		return false
	}
	logger.Get().Debug("QuizCache: hit", zap.String("key", key))
	return true
}

func (qc *QuizCache) write(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Get().Warn("QuizCache: failed to encode entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := qc.cache.Set(ctx, key, string(raw), qc.ttl); err != nil {
		logger.Get().Warn("QuizCache: cache write failed", zap.String("key", key), zap.Error(err))
	}
}
