package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/config"
	"github.com/sprintlab/sprint-api/internal/generation"
	"google.golang.org/genai"
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to produce lesson dialogue.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a new instance of GeminiGenerator with the
// provided dependencies. The context is used for client initialization only.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With("component", "gemini_generator"),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Ensure GeminiGenerator implements generation.Generator interface
var _ generation.Generator = (*GeminiGenerator)(nil)

// GenerateDialogue produces the dialogue text for the given lesson and user.
func (g *GeminiGenerator) GenerateDialogue(
	ctx context.Context,
	lesson *generation.LessonInput,
	userID uuid.UUID,
) (string, error) {
	if lesson == nil {
		return "", ErrNilLesson
	}
	if userID == uuid.Nil {
		return "", errors.New("user ID cannot be empty")
	}

	prompt, err := g.buildPrompt(ctx, lesson)
	if err != nil {
		return "", err
	}

	text, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	g.logger.InfoContext(ctx, "dialogue generated",
		"user_id", userID,
		"day", lesson.Day,
		"dialogue_length", len(text))

	return text, nil
}

// buildPrompt renders the lesson template with its variables.
func (g *GeminiGenerator) buildPrompt(ctx context.Context, lesson *generation.LessonInput) (string, error) {
	if lesson.Template == "" {
		return "", ErrEmptyTemplate
	}

	tmpl, err := template.New("dialogue").Option("missingkey=error").Parse(lesson.Template)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse lesson template: %v",
			generation.ErrInvalidConfig, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, lesson.Variables); err != nil {
		return "", fmt.Errorf("%w: failed to execute lesson template: %v",
			generation.ErrInvalidConfig, err)
	}

	prompt := buf.String()
	g.logger.DebugContext(ctx, "prompt rendered from lesson template",
		"day", lesson.Day,
		"prompt_length", len(prompt))

	return prompt, nil
}

// callGeminiWithRetry calls the Gemini API with exponential backoff.
// Transient errors are retried up to config.MaxRetries times; permanent
// errors (safety blocks, malformed responses) are returned immediately.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, err := g.generateOnce(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter, jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generateOnce makes a single API call and classifies the outcome.
func (g *GeminiGenerator) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		// API-level failures are assumed transient; the retry loop decides
		// whether to give up.
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty dialogue text", generation.ErrInvalidResponse)
	}

	return text, nil
}
