package domain

import (
	"context"
	"time"
)

// Default knob values applied when the caller leaves them zero.
const (
	DefaultOptionCount       = 4
	DefaultMatchingPairCount = 4
	MaxOptionCount           = 5
)

// GenerationConfig is the immutable input to one generation call. It is
// constructed by the caller and read-only thereafter.
type GenerationConfig struct {
	Content        string         `json:"content"`
	Type           QuestionType   `json:"type"`
	Quantity       int            `json:"quantity"`
	Difficulty     Difficulty     `json:"difficulty"`
	CognitiveLevel CognitiveLevel `json:"cognitive_level"`
	Language       string         `json:"language"`
	TopicFocus     string         `json:"topic_focus,omitempty"`

	// Per-type knobs
	OptionCount       int    `json:"option_count,omitempty"`        // choice types, 4 or 5
	AnswerLength      string `json:"answer_length,omitempty"`       // long answer: brief|standard|extended
	MatchingPairCount int    `json:"matching_pair_count,omitempty"` // matching
}

// EffectiveOptionCount returns the configured option count, or the default.
func (c GenerationConfig) EffectiveOptionCount() int {
	if c.OptionCount == 0 {
		return DefaultOptionCount
	}
	return c.OptionCount
}

// EffectiveMatchingPairCount returns the configured pair count, or the default.
func (c GenerationConfig) EffectiveMatchingPairCount() int {
	if c.MatchingPairCount == 0 {
		return DefaultMatchingPairCount
	}
	return c.MatchingPairCount
}

// MinAnswerWords maps a long-answer length class to the minimum word count
// the model answer should reach. Unknown classes fall back to the standard
// length.
func MinAnswerWords(class string) int {
	switch class {
	case "brief":
		return 30
	case "extended":
		return 120
	default:
		return 60
	}
}

// GenerationMetadata describes one generation call for auditing.
type GenerationMetadata struct {
	GeneratedAt        time.Time `json:"generated_at"`
	Model              string    `json:"model"`
	ProcessingTimeMs   int64     `json:"processing_time_ms"`
	ContentFingerprint string    `json:"content_fingerprint"`
}

// GenerationResult is the only object crossing the core's outward boundary.
// On failure Questions is empty and Error holds the message; no partial
// arrays are ever returned.
type GenerationResult struct {
	Success   bool               `json:"success"`
	Questions []Question         `json:"questions"`
	Error     string             `json:"error,omitempty"`
	Warnings  []string           `json:"warnings,omitempty"`
	Metadata  GenerationMetadata `json:"metadata"`
}

// CompletionClient is the port to the remote text-completion service. A
// Complete call owns its retry/backoff loop and returns the unwrapped reply
// text, or a SERVICE_ERROR DomainError once attempts are exhausted.
type CompletionClient interface {
	Complete(ctx context.Context, instruction string) (string, error)
	ModelName() string
}

// GenerationService is the caller boundary of the generation core. Neither
// method returns an error: every failure mode is folded into the result so
// callers always get a uniform shape.
type GenerationService interface {
	Generate(ctx context.Context, config GenerationConfig) GenerationResult
	GenerateBatch(ctx context.Context, configs []GenerationConfig) []GenerationResult
}
