package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/santoshk66/maizic-chatbot/internal/models"
)

// Sampling parameters for the support persona. Kept fixed; they are part of
// the product's voice, not per-request knobs.
const (
	Model            = "gpt-3.5-turbo"
	temperature      = 0.7
	topP             = 1.0
	presencePenalty  = 0.3
	frequencyPenalty = 0.3
	maxTokens        = 400
)

// OpenAIClient calls the hosted chat-completion API. No timeout is enforced
// beyond the transport defaults; cancellation comes from the request context.
type OpenAIClient struct {
	model  llms.Model
	logger *zap.Logger
}

func NewOpenAIClient(apiKey string, logger *zap.Logger) (*OpenAIClient, error) {
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return &OpenAIClient{model: model, logger: logger}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, turns []models.Turn) (string, error) {
	content := make([]llms.MessageContent, 0, len(turns))
	promptTokens := 0
	for _, t := range turns {
		content = append(content, llms.TextParts(roleToMessageType(t.Role), t.Content))
		promptTokens += EstimateTokens(t.Content)
	}

	c.logger.Debug("calling completion API",
		zap.Int("turns", len(turns)),
		zap.Int("prompt_tokens_estimate", promptTokens))

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithTemperature(temperature),
		llms.WithTopP(topP),
		llms.WithPresencePenalty(presencePenalty),
		llms.WithFrequencyPenalty(frequencyPenalty),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("generate completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func roleToMessageType(r models.Role) schema.ChatMessageType {
	switch r {
	case models.RoleSystem:
		return schema.ChatMessageTypeSystem
	case models.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

// isQuotaError sniffs the provider error text; the client library does not
// expose a typed 429.
func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429")
}
