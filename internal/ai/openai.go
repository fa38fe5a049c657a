package ai

import (
	"context"
	"errors"
	"fmt"

	"minichat-backend/internal/models"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIProvider generates replies and titles through the OpenAI chat
// completions API.
//
// Title policy: GenerateTitle never propagates backend failures; it falls
// back to a deterministic truncation of the seed message instead.
type OpenAIProvider struct {
	client *goopenai.Client
	logger *zap.Logger
}

// NewOpenAIProvider builds a provider bound to the given API key. baseURL
// overrides the API endpoint when non-empty (used for tests and proxies).
func NewOpenAIProvider(apiKey, baseURL string, logger *zap.Logger) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: goopenai.NewClientWithConfig(cfg),
		logger: logger,
	}
}

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, prompt []models.PromptMessage, model string) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    toChatMessages(prompt),
		MaxTokens:   maxResponseTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", wrapProviderErr("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) GenerateTitle(ctx context.Context, seed string, model string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: titleInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: seed},
		},
		MaxTokens:   maxTitleTokens,
		Temperature: 0.3,
	})
	if err != nil || len(resp.Choices) == 0 {
		p.logger.Warn("openai title generation failed, using truncated seed", zap.Error(err))
		return truncateTitle(seed), nil
	}
	return trimTitle(resp.Choices[0].Message.Content), nil
}

// toChatMessages projects prompt entries into the go-openai message type.
// The role constants line up with the wire format, so the cast is direct.
func toChatMessages(prompt []models.PromptMessage) []goopenai.ChatCompletionMessage {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(prompt))
	for _, entry := range prompt {
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    string(entry.Role),
			Content: entry.Content,
		})
	}
	return msgs
}

// wrapProviderErr normalizes go-openai failures into *ProviderError,
// preserving the backend status code when one was returned.
func wrapProviderErr(provider string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   provider,
			StatusCode: apiErr.HTTPStatusCode,
			Err:        fmt.Errorf("chat completion failed: %w", err),
		}
	}
	return &ProviderError{
		Provider: provider,
		Err:      fmt.Errorf("chat completion failed: %w", err),
	}
}
