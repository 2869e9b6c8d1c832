package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
)

// ChainGenerator runs the prompt through an eino chain ending in a chat model.
type ChainGenerator struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewChainGenerator compiles a template -> chat model chain around chatModel.
func NewChainGenerator(ctx context.Context, chatModel model.BaseChatModel, logger *zap.Logger) (*ChainGenerator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainGenerator{
		chain:  runnable,
		logger: logging.OrNop(logger).Named("ai"),
	}, nil
}

// Generate runs the chain once with the prompt as the only user message.
func (g *ChainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", nil
	}

	g.logger.Debug("generated response", zap.Int("length", len(response.Content)))
	return response.Content, nil
}
