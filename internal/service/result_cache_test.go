package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quizcraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResultCacheKey(t *testing.T) {
	svc := NewResultCacheService(new(MockCache), time.Hour)

	base := domain.GenerationConfig{
		Type:       domain.SingleChoice,
		Quantity:   5,
		Difficulty: domain.DifficultyMedium,
		Language:   "English",
	}

	t.Run("DeterministicForSameInput", func(t *testing.T) {
		assert.Equal(t, svc.Key("abc123", base), svc.Key("abc123", base))
	})

	t.Run("DistinctFingerprintsDistinctKeys", func(t *testing.T) {
		assert.NotEqual(t, svc.Key("abc123", base), svc.Key("def456", base))
	})

	t.Run("ShapingParametersAffectKey", func(t *testing.T) {
		key := svc.Key("abc123", base)

		changed := base
		changed.Quantity = 6
		assert.NotEqual(t, key, svc.Key("abc123", changed))

		changed = base
		changed.OptionCount = 5
		assert.NotEqual(t, key, svc.Key("abc123", changed))

		changed = base
		changed.TopicFocus = "goroutines"
		assert.NotEqual(t, key, svc.Key("abc123", changed))
	})

	t.Run("ContentNotPartOfKey", func(t *testing.T) {
		// Only the fingerprint stands in for the content.
		a, b := base, base
		a.Content = "first body"
		b.Content = "second body"
		assert.Equal(t, svc.Key("abc123", a), svc.Key("abc123", b))
	})

	t.Run("KeyCarriesGlobalPrefix", func(t *testing.T) {
		assert.Contains(t, svc.Key("abc123", base), "quizcraft:generation:result:abc123")
	})
}

func TestResultCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	result := domain.GenerationResult{
		Success: true,
		Questions: []domain.Question{{
			ID:            "01HXTESTULID",
			Type:          domain.TrueFalse,
			Question:      "Goroutines are OS threads.",
			CorrectAnswer: "False",
		}},
		Metadata: domain.GenerationMetadata{Model: "test-model"},
	}

	t.Run("PutSerializesWithTTL", func(t *testing.T) {
		mockCache := new(MockCache)
		mockCache.On("Set", mock.Anything, "k", mock.Anything, 30*time.Minute).Return(nil)

		svc := NewResultCacheService(mockCache, 30*time.Minute)
		require.NoError(t, svc.Put(ctx, "k", &result))

		stored := mockCache.Calls[0].Arguments.String(2)
		var got domain.GenerationResult
		require.NoError(t, json.Unmarshal([]byte(stored), &got))
		assert.Equal(t, result.Questions[0].Question, got.Questions[0].Question)
	})

	t.Run("GetDecodesStoredResult", func(t *testing.T) {
		raw, err := json.Marshal(&result)
		require.NoError(t, err)

		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, "k").Return(string(raw), nil)

		svc := NewResultCacheService(mockCache, time.Hour)
		got, err := svc.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "False", got.Questions[0].CorrectAnswer)
		assert.Equal(t, "test-model", got.Metadata.Model)
	})

	t.Run("MissPassesThrough", func(t *testing.T) {
		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, "k").Return("", domain.ErrCacheMiss)

		svc := NewResultCacheService(mockCache, time.Hour)
		_, err := svc.Get(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("UndecodableEntryTreatedAsMiss", func(t *testing.T) {
		mockCache := new(MockCache)
		mockCache.On("Get", mock.Anything, "k").Return("{not json", nil)

		svc := NewResultCacheService(mockCache, time.Hour)
		_, err := svc.Get(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}
