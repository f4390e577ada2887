package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/jobgenie/backend/config"
)

// GoogleAIClient talks to the Gemini API with an API key instead of Vertex AI
type GoogleAIClient struct {
	llm     llms.Model
	timeout time.Duration
}

// NewGoogleAIClient creates a Gemini API client
func NewGoogleAIClient(ctx context.Context, cfg *config.Config) (*GoogleAIClient, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.GeminiModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return &GoogleAIClient{
		llm:     llm,
		timeout: time.Duration(cfg.GenerateTimeoutSeconds) * time.Second,
	}, nil
}

// Generate sends a single prompt through langchaingo
func (c *GoogleAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(8192),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return resp, nil
}
