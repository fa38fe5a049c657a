package ai

import (
	"context"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"minichat-backend/internal/models"
)

// Artificial latency injected per call, 200-400ms, so that the rest of the
// system exercises its asynchronous paths even without a real backend.
const (
	mockDelayMin    = 200 * time.Millisecond
	mockDelayJitter = 200 * time.Millisecond
)

func mockDelay() time.Duration {
	return mockDelayMin + time.Duration(rand.Int63n(int64(mockDelayJitter)))
}

var mockResponses = []string{
	"I understand your question. Let me help you with that...",
	"That's an interesting point. Here's what I think...",
	"Let me break that down for you...",
	"Based on what you've said, I would suggest...",
	"That's a great question! Here's my take on it...",
	"I can help you with that. Let me explain...",
	"Interesting perspective! Here's another way to look at it...",
	"Let me provide you with some insights on that topic...",
}

// MockProvider is the deterministic offline stand-in, active whenever no
// hosted credential is configured. It rotates through canned responses, with
// keyword branches for greetings and thanks, and never calls the network.
//
// Title policy: GenerateTitle never fails; it returns the first five words
// of the seed, with an ellipsis when the seed was longer.
type MockProvider struct {
	counter atomic.Uint64
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) GenerateResponse(ctx context.Context, prompt []models.PromptMessage, model string) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", &ProviderError{Provider: "mock", Err: err}
	}

	select {
	case <-time.After(mockDelay()):
	case <-ctx.Done():
		return "", &ProviderError{Provider: "mock", Err: ctx.Err()}
	}

	last := strings.ToLower(prompt[len(prompt)-1].Content)
	if strings.Contains(last, "hello") || strings.Contains(last, "hi") {
		return "Hello! How can I assist you today?", nil
	}
	if strings.Contains(last, "thank") {
		return "You're welcome! Is there anything else I can help you with?", nil
	}

	idx := p.counter.Add(1) - 1
	return mockResponses[idx%uint64(len(mockResponses))], nil
}

func (p *MockProvider) GenerateTitle(ctx context.Context, seed string, model string) (string, error) {
	words := strings.Fields(seed)
	if len(words) > 5 {
		words = words[:5]
	}
	title := strings.Join(words, " ")
	if len(words) == 5 {
		title += "..."
	}
	return title, nil
}
