// Package completion wraps the remote text-completion service behind a
// retrying client. Retries exist only to paper over transient infrastructure
// flakiness: a reply whose envelope is intact but whose content is malformed
// is passed through untouched, since repeating an identical prompt rarely
// fixes a content defect and wastes quota.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quizcraft/internal/config"
	"quizcraft/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Client calls the completion service with a per-attempt timeout and
// exponential backoff between attempts.
type Client struct {
	llm         llms.Model
	modelName   string
	temperature float64
	retry       config.RetryConfig
	logger      *zap.Logger

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client over an OpenAI-compatible completion endpoint.
func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("completion API key cannot be empty")
	}
	if cfg.LLM.Model == "" {
		return nil, fmt.Errorf("completion model name cannot be empty")
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	opts := []openai.Option{
		openai.WithToken(cfg.LLM.APIKey),
		openai.WithModel(cfg.LLM.Model),
		openai.WithHTTPClient(httpClient),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion LLM client: %w", err)
	}

	logger.Info("Initialized completion client", zap.String("model", cfg.LLM.Model))
	return NewClientWithModel(llm, cfg.LLM.Model, cfg.LLM.Temperature, cfg.Retry, logger), nil
}

// NewClientWithModel builds a Client over an already-constructed model.
// Used directly in tests and by callers with custom model wiring.
func NewClientWithModel(llm llms.Model, modelName string, temperature float64, retry config.RetryConfig, logger *zap.Logger) *Client {
	if retry.MaxRetries <= 0 {
		retry.MaxRetries = 3
	}
	if retry.BaseBackoff <= 0 {
		retry.BaseBackoff = time.Second
	}
	if retry.MaxBackoff <= 0 {
		retry.MaxBackoff = 8 * time.Second
	}
	if retry.Timeout <= 0 {
		retry.Timeout = 60 * time.Second
	}
	return &Client{
		llm:         llm,
		modelName:   modelName,
		temperature: temperature,
		retry:       retry,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// ModelName implements domain.CompletionClient.
func (c *Client) ModelName() string {
	return c.modelName
}

// attemptPhase is the retry state machine's state. Expressing the loop as an
// explicit machine keeps the "retry transport errors only" invariant
// mechanical instead of conventional.
type attemptPhase int

const (
	phaseAttempting attemptPhase = iota
	phaseBackoff
	phaseSucceeded
	phaseExhausted
)

// Complete implements domain.CompletionClient. It issues up to MaxRetries
// attempts, backing off exponentially (doubled per attempt, capped) between
// them, and fails with a SERVICE_ERROR carrying the last underlying cause
// once attempts are exhausted.
func (c *Client) Complete(ctx context.Context, instruction string) (string, error) {
	var (
		phase   = phaseAttempting
		attempt = 1
		backoff = c.retry.BaseBackoff
		reply   string
		lastErr error
	)

	for {
		switch phase {
		case phaseAttempting:
			reply, lastErr = c.attempt(ctx, instruction)
			switch {
			case lastErr == nil:
				phase = phaseSucceeded
			case attempt >= c.retry.MaxRetries:
				phase = phaseExhausted
			default:
				phase = phaseBackoff
			}

		case phaseBackoff:
			c.logger.Warn("Completion attempt failed, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			if err := c.sleep(ctx, backoff); err != nil {
				lastErr = err
				phase = phaseExhausted
				continue
			}
			backoff *= 2
			if backoff > c.retry.MaxBackoff {
				backoff = c.retry.MaxBackoff
			}
			attempt++
			phase = phaseAttempting

		case phaseSucceeded:
			return reply, nil

		case phaseExhausted:
			return "", domain.NewServiceError(
				fmt.Sprintf("completion failed after %d attempts", attempt), lastErr)
		}
	}
}

// attempt issues one network call under the per-call timeout and unwraps the
// service envelope. A response missing the expected text field is a
// transport-shape failure, and retryable.
func (c *Client) attempt(ctx context.Context, instruction string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.retry.Timeout)
	defer cancel()

	resp, err := c.llm.GenerateContent(callCtx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, instruction)},
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("completion envelope has no choices")
	}
	text := resp.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", errors.New("completion envelope has empty content")
	}
	return text, nil
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

var _ domain.CompletionClient = (*Client)(nil)
