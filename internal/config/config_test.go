package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("EXCHANGE_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-3-flash-preview", cfg.AI.GeminiModel)
	assert.Zero(t, cfg.AI.ExchangeTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadPortForms(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{port: "9090", want: ":9090"},
		{port: ":7070", want: ":7070"},
		{port: "127.0.0.1:6060", want: "127.0.0.1:6060"},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Server.Addr)
		})
	}
}

func TestLoadRejectsPortWithSpaces(t *testing.T) {
	t.Setenv("PORT", "80 80")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "carrier-pigeon")

	_, err := Load()
	assert.ErrorContains(t, err, "AI_PROVIDER")
}

func TestLoadOptionalOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_TEMPERATURE", "0.4")
	t.Setenv("AI_MAX_TOKENS", "256")
	t.Setenv("EXCHANGE_TIMEOUT", "15s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.True(t, cfg.AI.Enabled())
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.4, *cfg.AI.Temperature, 1e-9)
	require.NotNil(t, cfg.AI.MaxTokens)
	assert.Equal(t, 256, *cfg.AI.MaxTokens)
	assert.Equal(t, 15*time.Second, cfg.AI.ExchangeTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadInvalidNumber(t *testing.T) {
	t.Setenv("AI_TEMPERATURE", "warm")

	_, err := Load()
	assert.Error(t, err)
}

func TestAIConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  AIConfig
		want bool
	}{
		{name: "gemini with key", cfg: AIConfig{Provider: ProviderGemini, GeminiAPIKey: "k"}, want: true},
		{name: "gemini without key", cfg: AIConfig{Provider: ProviderGemini}, want: false},
		{name: "ark api key", cfg: AIConfig{Provider: ProviderArk, Model: "ep-1", APIKey: "k"}, want: true},
		{name: "ark ak/sk", cfg: AIConfig{Provider: ProviderArk, Model: "ep-1", AccessKey: "a", SecretKey: "s"}, want: true},
		{name: "ark missing model", cfg: AIConfig{Provider: ProviderArk, APIKey: "k"}, want: false},
		{name: "openai without key", cfg: AIConfig{Provider: ProviderOpenAI}, want: false},
		{name: "unknown provider", cfg: AIConfig{Provider: "x", GeminiAPIKey: "k"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Enabled())
		})
	}
}

func TestNewChatModelRequiresCredentials(t *testing.T) {
	_, err := AIConfig{Provider: ProviderArk}.NewChatModel(context.Background())
	assert.Error(t, err)
}
