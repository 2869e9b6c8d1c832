package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/config"
)

// Generator is the text-generation capability the chat session depends on:
// one prompt string in, one reply string or an error out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewGenerator builds the Generator for the configured provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (Generator, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("credentials for provider %q are not configured", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, GeminiOptions{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: float32Ptr(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
		})
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewChainGenerator(ctx, chatModel, logger)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIOptions{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: float32Ptr(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func float32Ptr(v *float64) *float32 {
	if v == nil {
		return nil
	}
	f := float32(*v)
	return &f
}

// Unconfigured returns a Generator that fails every call with an error naming
// the missing API key, so sessions answer with the credential fallback.
func Unconfigured(provider string) Generator {
	return GeneratorFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("api key not configured for provider %q", provider)
	})
}
