package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testContent = "Go is a statically typed, compiled language designed at Google. " +
	"Goroutines are lightweight threads managed by the Go runtime."

func testServiceConfig() *config.Config {
	return &config.Config{
		Generation: config.GenerationLimits{
			MinContentLength: 10,
			MaxContentLength: 10000,
			MinQuantity:      1,
			MaxQuantity:      10,
		},
		Batch: config.BatchConfig{
			RequestDelay: 25 * time.Millisecond,
		},
	}
}

func trueFalseReply(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = `{"question": "Go is compiled.", "answer": "true"}`
	}
	return "```json\n[" + strings.Join(items, ",") + "]\n```"
}

func newTestService(client domain.CompletionClient, cache ResultCacheService) *generationService {
	svc := NewGenerationService(client, cache, testServiceConfig(), zap.NewNop()).(*generationService)
	svc.sleep = func(_ context.Context, _ time.Duration) error { return nil }
	return svc
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessProducesExactQuantity", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(trueFalseReply(3), nil)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  testContent,
			Type:     domain.TrueFalse,
			Quantity: 3,
		})

		require.True(t, result.Success, "unexpected error: %s", result.Error)
		assert.Len(t, result.Questions, 3)
		assert.Empty(t, result.Error)
		assert.Equal(t, "test-model", result.Metadata.Model)
		assert.Equal(t, util.ContentFingerprint(testContent), result.Metadata.ContentFingerprint)
		assert.False(t, result.Metadata.GeneratedAt.IsZero())
	})

	t.Run("ConfigErrorSkipsNetworkCall", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  "too short",
			Type:     domain.TrueFalse,
			Quantity: 100,
		})

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "quantity")
		assert.Empty(t, result.Questions)
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("ServiceErrorIsFolded", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).
			Return("", domain.NewServiceError("completion failed after 3 attempts", nil))
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  testContent,
			Type:     domain.TrueFalse,
			Quantity: 2,
		})

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "after 3 attempts")
		assert.Empty(t, result.Questions)
	})

	t.Run("ExtractionErrorIsFolded", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return("no array here, sorry", nil)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  testContent,
			Type:     domain.TrueFalse,
			Quantity: 2,
		})

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "no JSON array")
	})

	t.Run("ValidationErrorCarriesItemIndex", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).
			Return(`[{"question": "ok", "answer": true}, {"question": "bad", "answer": "maybe"}]`, nil)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  testContent,
			Type:     domain.TrueFalse,
			Quantity: 2,
		})

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "item 1")
		assert.Contains(t, result.Error, `"answer"`)
	})

	t.Run("QuantityMismatchFailsWholeCall", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(trueFalseReply(2), nil)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  testContent,
			Type:     domain.TrueFalse,
			Quantity: 5,
		})

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "expected 5 questions, model produced 2")
		assert.Empty(t, result.Questions)
	})

	t.Run("WarningsSurfacedOnSuccess", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).
			Return(`[{"question": "____ and ____ are keywords.", "answer": "func"}]`, nil)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		result := svc.Generate(ctx, domain.GenerationConfig{
			Content:  testContent,
			Type:     domain.FillInBlank,
			Quantity: 1,
		})

		require.True(t, result.Success, "unexpected error: %s", result.Error)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "blanks")
	})
}

func TestGenerateWithResultCache(t *testing.T) {
	ctx := context.Background()
	gc := domain.GenerationConfig{
		Content:  testContent,
		Type:     domain.TrueFalse,
		Quantity: 1,
	}

	t.Run("MissGeneratesAndWrites", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(trueFalseReply(1), nil)
		client.On("ModelName").Return("test-model")

		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
		mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(client, NewResultCacheService(mockCache, time.Hour))
		result := svc.Generate(ctx, gc)

		require.True(t, result.Success, "unexpected error: %s", result.Error)
		mockCache.AssertCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, time.Hour)
	})

	t.Run("HitSkipsCompletion", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("ModelName").Return("test-model")

		cached := `{"success": true, "questions": [{"id": "01HX", "type": "true_false", "question": "Q", "correct_answer": "True", "difficulty": "medium", "cognitive_level": "understand", "language": "English"}], "metadata": {"model": "test-model"}}`
		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, mock.Anything).Return(cached, nil)

		svc := newTestService(client, NewResultCacheService(mockCache, time.Hour))
		result := svc.Generate(ctx, gc)

		require.True(t, result.Success)
		require.Len(t, result.Questions, 1)
		assert.Equal(t, "True", result.Questions[0].CorrectAnswer)
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("CacheErrorDegradesToGeneration", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(trueFalseReply(1), nil)
		client.On("ModelName").Return("test-model")

		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.CacheError("connection reset"))
		mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(client, NewResultCacheService(mockCache, time.Hour))
		result := svc.Generate(ctx, gc)
		require.True(t, result.Success, "unexpected error: %s", result.Error)
	})

	t.Run("FailureIsNotCached", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return("garbage", nil)
		client.On("ModelName").Return("test-model")

		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)

		svc := newTestService(client, NewResultCacheService(mockCache, time.Hour))
		result := svc.Generate(ctx, gc)

		assert.False(t, result.Success)
		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGenerateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("SerializedWithDelayBetweenRequests", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(trueFalseReply(1), nil)
		client.On("ModelName").Return("test-model")

		svc := NewGenerationService(client, nil, testServiceConfig(), zap.NewNop()).(*generationService)
		var delays []time.Duration
		svc.sleep = func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}

		gc := domain.GenerationConfig{Content: testContent, Type: domain.TrueFalse, Quantity: 1}
		results := svc.GenerateBatch(ctx, []domain.GenerationConfig{gc, gc, gc})

		require.Len(t, results, 3)
		for _, res := range results {
			assert.True(t, res.Success)
		}
		// No delay before the first request, one before each subsequent one.
		assert.Equal(t, []time.Duration{25 * time.Millisecond, 25 * time.Millisecond}, delays)
	})

	t.Run("MixedOutcomesKeepPositions", func(t *testing.T) {
		client := new(MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(trueFalseReply(1), nil)
		client.On("ModelName").Return("test-model")

		svc := newTestService(client, nil)
		good := domain.GenerationConfig{Content: testContent, Type: domain.TrueFalse, Quantity: 1}
		bad := domain.GenerationConfig{Content: testContent, Type: "essay", Quantity: 1}

		results := svc.GenerateBatch(ctx, []domain.GenerationConfig{good, bad, good})
		require.Len(t, results, 3)
		assert.True(t, results[0].Success)
		assert.False(t, results[1].Success)
		assert.Contains(t, results[1].Error, "type")
		assert.True(t, results[2].Success)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		client := new(MockCompletionClient)
		svc := newTestService(client, nil)
		assert.Empty(t, svc.GenerateBatch(ctx, nil))
	})
}
