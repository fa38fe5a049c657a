package ai

import (
	"context"
	"fmt"
	"strings"

	"minichat-backend/internal/models"
)

// Provider is the uniform capability set implemented by every AI backend:
// generate a reply from a role-tagged message sequence, and generate a short
// title from a seed message. Variants are interchangeable; callers dispatch
// through this interface only.
type Provider interface {
	// GenerateResponse produces the assistant's reply for the given prompt.
	// The prompt must be non-empty (at minimum the system entry) and every
	// entry's role must be one of the three defined roles. Failures surface
	// as *ProviderError; the caller decides whether that is fatal.
	GenerateResponse(ctx context.Context, prompt []models.PromptMessage, model string) (string, error)

	// GenerateTitle produces a short (intended <=5 words) label for a
	// conversation seeded by the given first message. Hosted implementations
	// recover from backend failures by falling back to a deterministic
	// truncation of the seed; see each variant's documentation.
	GenerateTitle(ctx context.Context, seed string, model string) (string, error)
}

// ProviderError reports a failed call to an AI backend, carrying the
// backend's HTTP status when one was received (0 for transport failures).
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// titleInstruction is the fixed system prompt used by hosted providers when
// generating a chat title.
const titleInstruction = "Generate a short, concise title (maximum 5 words) " +
	"for a conversation that starts with the following message. Return only " +
	"the title of the prompted request, no quotes or explanations."

const (
	maxResponseTokens = 3000
	maxTitleTokens    = 20
)

// validatePrompt enforces the Provider input constraint: a non-empty sequence
// of entries tagged with defined roles.
func validatePrompt(prompt []models.PromptMessage) error {
	if len(prompt) == 0 {
		return fmt.Errorf("prompt must contain at least the system entry")
	}
	for i, entry := range prompt {
		if !models.ValidRole(entry.Role) {
			return fmt.Errorf("prompt entry %d has invalid role %q", i, entry.Role)
		}
	}
	return nil
}

// trimTitle cleans up a backend-produced title.
func trimTitle(title string) string {
	return strings.TrimSpace(title)
}

// truncateTitle is the deterministic fallback used when a hosted backend
// cannot produce a title: the first 30 characters of the seed plus an
// ellipsis, or the seed unchanged when it is short enough.
func truncateTitle(seed string) string {
	runes := []rune(seed)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return seed
}
