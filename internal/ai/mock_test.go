package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"minichat-backend/internal/models"
)

func promptWith(content string) []models.PromptMessage {
	return []models.PromptMessage{
		{Role: models.RoleSystem, Content: "system instruction"},
		{Role: models.RoleUser, Content: content},
	}
}

func TestMockProvider_GreetingBranch(t *testing.T) {
	p := NewMockProvider()
	got, err := p.GenerateResponse(context.Background(), promptWith("Hello there"), "any-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello! How can I assist you today?" {
		t.Errorf("unexpected greeting response: %q", got)
	}
}

func TestMockProvider_ThanksBranch(t *testing.T) {
	p := NewMockProvider()
	got, err := p.GenerateResponse(context.Background(), promptWith("ok thanks"), "any-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "You're welcome! Is there anything else I can help you with?" {
		t.Errorf("unexpected thanks response: %q", got)
	}
}

func TestMockProvider_RotatesCannedResponses(t *testing.T) {
	p := NewMockProvider()
	first, err := p.GenerateResponse(context.Background(), promptWith("tell me about go"), "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.GenerateResponse(context.Background(), promptWith("tell me more about go"), "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != mockResponses[0] {
		t.Errorf("first canned response = %q, want %q", first, mockResponses[0])
	}
	if second != mockResponses[1] {
		t.Errorf("second canned response = %q, want %q", second, mockResponses[1])
	}
}

func TestMockProvider_DelayWithinBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := mockDelay()
		if d < mockDelayMin || d >= mockDelayMin+mockDelayJitter {
			t.Fatalf("delay %v outside [%v, %v)", d, mockDelayMin, mockDelayMin+mockDelayJitter)
		}
	}

	p := NewMockProvider()
	start := time.Now()
	if _, err := p.GenerateResponse(context.Background(), promptWith("question"), "m"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < mockDelayMin {
		t.Errorf("response returned after %v, want at least %v", elapsed, mockDelayMin)
	}
}

func TestMockProvider_RejectsEmptyPrompt(t *testing.T) {
	p := NewMockProvider()
	_, err := p.GenerateResponse(context.Background(), nil, "m")
	if err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestMockProvider_RejectsInvalidRole(t *testing.T) {
	p := NewMockProvider()
	prompt := []models.PromptMessage{{Role: "robot", Content: "beep"}}
	if _, err := p.GenerateResponse(context.Background(), prompt, "m"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestMockProvider_CancelledContext(t *testing.T) {
	p := NewMockProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.GenerateResponse(ctx, promptWith("question"), "m"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestMockProvider_GenerateTitle(t *testing.T) {
	p := NewMockProvider()
	tests := []struct {
		name string
		seed string
		want string
	}{
		{"short seed unchanged", "hi", "hi"},
		{"four words unchanged", "how do channels work", "how do channels work"},
		{"five words get ellipsis", "how do go channels work", "how do go channels work..."},
		{"longer seed truncated to five words", "how do go channels work under the hood", "how do go channels work..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.GenerateTitle(context.Background(), tc.seed, "m")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("GenerateTitle(%q) = %q, want %q", tc.seed, got, tc.want)
			}
			if len(strings.Fields(strings.TrimSuffix(got, "..."))) > 5 {
				t.Errorf("title %q has more than five words", got)
			}
		})
	}
}
