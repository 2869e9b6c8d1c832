package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures an OpenAIGenerator. BaseURL may point at any compatible endpoint.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// OpenAIGenerator calls a chat completions endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAIGenerator creates the client.
func NewOpenAIGenerator(opts OpenAIOptions) *OpenAIGenerator {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// Generate sends the prompt as one user message and returns the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if g.opts.Temperature != nil {
		req.Temperature = *g.opts.Temperature
	}
	if g.opts.MaxTokens != nil {
		req.MaxTokens = *g.opts.MaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
