package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/config"
)

type fakeChatModel struct {
	mu    sync.Mutex
	reply string
	err   error
	seen  []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestGeneratorFunc(t *testing.T) {
	g := GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return strings.ToUpper(prompt), nil
	})

	got, err := g.Generate(context.Background(), "wake up")
	require.NoError(t, err)
	assert.Equal(t, "WAKE UP", got)
}

func TestChainGeneratorSendsPromptAsUserMessage(t *testing.T) {
	fake := &fakeChatModel{reply: "Decryption complete."}
	g, err := NewChainGenerator(context.Background(), fake, nil)
	require.NoError(t, err)

	got, err := g.Generate(context.Background(), "User: hello\nWhiteRabbit:")
	require.NoError(t, err)
	assert.Equal(t, "Decryption complete.", got)

	require.Len(t, fake.seen, 1)
	assert.Equal(t, schema.User, fake.seen[0].Role)
	assert.Equal(t, "User: hello\nWhiteRabbit:", fake.seen[0].Content)
}

func TestChainGeneratorWrapsModelError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("status 429: quota")}
	g, err := NewChainGenerator(context.Background(), fake, nil)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewChainGeneratorRequiresModel(t *testing.T) {
	_, err := NewChainGenerator(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestNewGeneratorRequiresCredentials(t *testing.T) {
	_, err := NewGenerator(context.Background(), config.AIConfig{Provider: config.ProviderGemini}, nil)
	assert.ErrorContains(t, err, "gemini")
}

func TestOpenAIGenerator(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Scanning network..."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})

	got, err := g.Generate(context.Background(), "who are you")
	require.NoError(t, err)
	assert.Equal(t, "Scanning network...", got)
	assert.Equal(t, "who are you", gotPrompt)
}

func TestOpenAIGeneratorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})

	_, err := g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiGenerator(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"The rabbit hole goes deep."}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := g.Generate(context.Background(), "trace the signal")
	require.NoError(t, err)
	assert.Equal(t, "The rabbit hole goes deep.", got)
	assert.Contains(t, gotBody, "trace the signal")
}

func TestGeminiGeneratorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), GeminiOptions{})
	assert.Error(t, err)
}

func TestUnconfiguredMentionsAPIKey(t *testing.T) {
	_, err := Unconfigured("gemini").Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}
