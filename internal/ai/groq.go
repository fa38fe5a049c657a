package ai

import (
	"context"
	"errors"

	"minichat-backend/internal/models"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// groqAPIEndpoint is Groq's OpenAI-compatible chat completions base URL.
const groqAPIEndpoint = "https://api.groq.com/openai/v1"

// GroqProvider generates replies and titles through Groq's OpenAI-compatible
// API. It reuses the go-openai client with an overridden base URL.
//
// Title policy: like OpenAIProvider, GenerateTitle falls back to a truncated
// seed on any backend failure instead of propagating the error.
type GroqProvider struct {
	client *goopenai.Client
	logger *zap.Logger
}

// NewGroqProvider builds a provider bound to the given API key. baseURL
// overrides the Groq endpoint when non-empty (used for tests).
func NewGroqProvider(apiKey, baseURL string, logger *zap.Logger) *GroqProvider {
	if baseURL == "" {
		baseURL = groqAPIEndpoint
	}
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &GroqProvider{
		client: goopenai.NewClientWithConfig(cfg),
		logger: logger,
	}
}

func (p *GroqProvider) GenerateResponse(ctx context.Context, prompt []models.PromptMessage, model string) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", &ProviderError{Provider: "groq", Err: err}
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     model,
		Messages:  toChatMessages(prompt),
		MaxTokens: maxResponseTokens,
	})
	if err != nil {
		return "", wrapProviderErr("groq", err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "groq", Err: errors.New("no choices in response")}
	}

	if resp.Usage.PromptTokens > 0 {
		p.logger.Debug("groq completion usage",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("total_tokens", resp.Usage.TotalTokens))
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *GroqProvider) GenerateTitle(ctx context.Context, seed string, model string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: titleInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: seed},
		},
		MaxTokens: maxTitleTokens,
	})
	if err != nil || len(resp.Choices) == 0 {
		p.logger.Warn("groq title generation failed, using truncated seed", zap.Error(err))
		return truncateTitle(seed), nil
	}
	return trimTitle(resp.Choices[0].Message.Content), nil
}
