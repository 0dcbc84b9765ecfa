package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"quizcraft/internal/cache"
	"quizcraft/internal/domain"
	"quizcraft/internal/logger"

	"go.uber.org/zap"
)

// ResultCacheService caches successful generation results keyed by content
// fingerprint plus the generation parameters that shape the output.
type ResultCacheService interface {
	Key(fingerprint string, cfg domain.GenerationConfig) string
	Get(ctx context.Context, key string) (*domain.GenerationResult, error)
	Put(ctx context.Context, key string, result *domain.GenerationResult) error
}

type resultCacheService struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewResultCacheService creates a ResultCacheService over the given cache.
func NewResultCacheService(c domain.Cache, ttl time.Duration) ResultCacheService {
	return &resultCacheService{cache: c, ttl: ttl}
}

// Key builds the cache key. Two requests share a key only when both the
// content fingerprint and every output-shaping parameter match.
func (s *resultCacheService) Key(fingerprint string, cfg domain.GenerationConfig) string {
	return cache.GenerateCacheKey("generation", "result", fingerprint,
		string(cfg.Type),
		strconv.Itoa(cfg.Quantity),
		string(cfg.Difficulty),
		string(cfg.CognitiveLevel),
		cfg.Language,
		cfg.TopicFocus,
		strconv.Itoa(cfg.EffectiveOptionCount()),
		cfg.AnswerLength,
		strconv.Itoa(cfg.EffectiveMatchingPairCount()),
	)
}

// Get returns the cached result for key, or domain.ErrCacheMiss.
func (s *resultCacheService) Get(ctx context.Context, key string) (*domain.GenerationResult, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var result domain.GenerationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Get().Warn("Discarding undecodable cached generation result",
			zap.String("cacheKey", key), zap.Error(err))
		// Treat as a miss; the stale entry will be overwritten.
		return nil, domain.ErrCacheMiss
	}
	return &result, nil
}

// Put stores a result under key with the configured TTL.
func (s *resultCacheService) Put(ctx context.Context, key string, result *domain.GenerationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, string(raw), s.ttl)
}
