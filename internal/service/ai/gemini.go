package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiOptions configures a GeminiGenerator.
type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float32
	MaxTokens   *int
}

// GeminiGenerator calls the Gemini generateContent endpoint.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator creates a Gemini API client.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := opts.Model
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{Temperature: opts.Temperature}
	if opts.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*opts.MaxTokens)
	}

	return &GeminiGenerator{client: client, model: model, config: cfg}, nil
}

// Generate sends the prompt as a single user content part.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}
