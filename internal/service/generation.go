package service

import (
	"context"
	"fmt"
	"time"

	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/extract"
	"quizcraft/internal/logger"
	"quizcraft/internal/normalize"
	"quizcraft/internal/prompt"
	"quizcraft/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// generationService implements domain.GenerationService. It owns the pipeline
// sequencing: validate config, build prompt, call the completion service,
// extract, normalize, and fold everything into a uniform result envelope.
type generationService struct {
	client      domain.CompletionClient
	resultCache ResultCacheService // nil disables caching
	cfg         *config.Config
	logger      *zap.Logger
	sfGroup     singleflight.Group

	// sleep is swapped out in tests to avoid real batch delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGenerationService creates a new generation service. resultCache may be
// nil, in which case every call reaches the completion service.
func NewGenerationService(
	client domain.CompletionClient,
	resultCache ResultCacheService,
	cfg *config.Config,
	log *zap.Logger,
) domain.GenerationService {
	if log == nil {
		log = logger.Get()
	}
	return &generationService{
		client:      client,
		resultCache: resultCache,
		cfg:         cfg,
		logger:      log,
		sleep:       sleepContext,
	}
}

// Generate implements domain.GenerationService. It never returns a raw error:
// every failure mode is captured in the result's error field.
func (s *generationService) Generate(ctx context.Context, gc domain.GenerationConfig) domain.GenerationResult {
	start := time.Now()
	fingerprint := util.ContentFingerprint(gc.Content)

	// Fail fast on invalid parameters; no network call is issued.
	if err := s.validateConfig(gc); err != nil {
		s.logger.Warn("Rejected generation config", zap.String("fingerprint", fingerprint), zap.Error(err))
		return s.failure(start, fingerprint, err)
	}

	if s.resultCache != nil {
		key := s.resultCache.Key(fingerprint, gc)
		if cached, err := s.resultCache.Get(ctx, key); err == nil {
			s.logger.Info("Generation result cache hit", zap.String("cacheKey", key))
			return *cached
		} else if err != domain.ErrCacheMiss {
			s.logger.Error("Generation result cache read failed", zap.String("cacheKey", key), zap.Error(err))
		}

		// Collapse concurrent identical requests onto one in-flight call.
		// Results are immutable, so sharing one across callers is safe.
		res, _, _ := s.sfGroup.Do(key, func() (interface{}, error) {
			result := s.generate(ctx, gc, start, fingerprint)
			if result.Success {
				if err := s.resultCache.Put(ctx, key, &result); err != nil {
					s.logger.Error("Generation result cache write failed", zap.String("cacheKey", key), zap.Error(err))
				}
			}
			return result, nil
		})
		return res.(domain.GenerationResult)
	}

	return s.generate(ctx, gc, start, fingerprint)
}

// GenerateBatch implements domain.GenerationService. Requests are deliberately
// serialized with a fixed inter-request delay to stay within rate limits.
func (s *generationService) GenerateBatch(ctx context.Context, configs []domain.GenerationConfig) []domain.GenerationResult {
	results := make([]domain.GenerationResult, 0, len(configs))
	for i, gc := range configs {
		if i > 0 && s.cfg.Batch.RequestDelay > 0 {
			if err := s.sleep(ctx, s.cfg.Batch.RequestDelay); err != nil {
				fingerprint := util.ContentFingerprint(gc.Content)
				results = append(results, s.failure(time.Now(), fingerprint,
					domain.NewServiceError("batch canceled", err)))
				continue
			}
		}
		results = append(results, s.Generate(ctx, gc))
	}
	return results
}

// generate runs one full pipeline pass and assembles the result envelope.
func (s *generationService) generate(ctx context.Context, gc domain.GenerationConfig, start time.Time, fingerprint string) domain.GenerationResult {
	instruction := prompt.Build(gc)
	s.logger.Debug("Built generation prompt",
		zap.String("type", string(gc.Type)),
		zap.Int("quantity", gc.Quantity),
		zap.Int("prompt_len", len(instruction)))

	reply, err := s.client.Complete(ctx, instruction)
	if err != nil {
		s.logger.Error("Completion service failed", zap.String("fingerprint", fingerprint), zap.Error(err))
		return s.failure(start, fingerprint, err)
	}

	candidates, err := extract.Candidates(reply)
	if err != nil {
		s.logger.Error("Failed to extract question array from reply",
			zap.String("fingerprint", fingerprint), zap.Error(err))
		return s.failure(start, fingerprint, err)
	}

	questions, warns, err := normalize.Candidates(candidates, gc)
	if err != nil {
		s.logger.Error("Candidate validation failed", zap.String("fingerprint", fingerprint), zap.Error(err))
		return s.failure(start, fingerprint, err)
	}

	// No partial success: short or overlong arrays fail the whole call so
	// callers never receive fewer questions than they asked for.
	if len(questions) != gc.Quantity {
		err := domain.NewError(domain.ErrValidation,
			fmt.Sprintf("expected %d questions, model produced %d", gc.Quantity, len(questions)), nil)
		s.logger.Error("Question count mismatch", zap.String("fingerprint", fingerprint), zap.Error(err))
		return s.failure(start, fingerprint, err)
	}

	s.logger.Info("Generation succeeded",
		zap.String("type", string(gc.Type)),
		zap.Int("quantity", len(questions)),
		zap.Int("warnings", len(warns)),
		zap.Duration("elapsed", time.Since(start)))

	return domain.GenerationResult{
		Success:   true,
		Questions: questions,
		Warnings:  warns,
		Metadata:  s.metadata(start, fingerprint),
	}
}

// validateConfig checks every configured bound before any network call.
func (s *generationService) validateConfig(gc domain.GenerationConfig) error {
	limits := s.cfg.Generation

	if !gc.Type.Valid() {
		return domain.NewConfigError("type", fmt.Sprintf("unsupported question type %q", gc.Type))
	}
	if n := len(gc.Content); n < limits.MinContentLength {
		return domain.NewConfigError("content", fmt.Sprintf("length %d is below the minimum %d", n, limits.MinContentLength))
	}
	if n := len(gc.Content); n > limits.MaxContentLength {
		return domain.NewConfigError("content", fmt.Sprintf("length %d exceeds the maximum %d", n, limits.MaxContentLength))
	}
	if gc.Quantity < limits.MinQuantity || gc.Quantity > limits.MaxQuantity {
		return domain.NewConfigError("quantity", fmt.Sprintf("%d is outside the allowed range %d-%d", gc.Quantity, limits.MinQuantity, limits.MaxQuantity))
	}
	if gc.Difficulty != "" && !gc.Difficulty.Valid() {
		return domain.NewConfigError("difficulty", fmt.Sprintf("unknown difficulty %q", gc.Difficulty))
	}
	if gc.CognitiveLevel != "" && !gc.CognitiveLevel.Valid() {
		return domain.NewConfigError("cognitive_level", fmt.Sprintf("unknown cognitive level %q", gc.CognitiveLevel))
	}
	if gc.OptionCount != 0 && (gc.OptionCount < 2 || gc.OptionCount > domain.MaxOptionCount) {
		return domain.NewConfigError("option_count", fmt.Sprintf("%d is outside the allowed range 2-%d", gc.OptionCount, domain.MaxOptionCount))
	}
	if gc.MatchingPairCount != 0 && gc.MatchingPairCount < 2 {
		return domain.NewConfigError("matching_pair_count", fmt.Sprintf("%d is below the minimum 2", gc.MatchingPairCount))
	}
	return nil
}

func (s *generationService) failure(start time.Time, fingerprint string, err error) domain.GenerationResult {
	return domain.GenerationResult{
		Success:   false,
		Questions: []domain.Question{},
		Error:     err.Error(),
		Metadata:  s.metadata(start, fingerprint),
	}
}

func (s *generationService) metadata(start time.Time, fingerprint string) domain.GenerationMetadata {
	return domain.GenerationMetadata{
		GeneratedAt:        time.Now(),
		Model:              s.client.ModelName(),
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
		ContentFingerprint: fingerprint,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
