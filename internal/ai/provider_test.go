package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"minichat-backend/internal/models"

	"go.uber.org/zap"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		seed string
		want string
	}{
		{"hi", "hi"},
		{strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"what is the meaning of life, the universe and everything", "what is the meaning of life, t..."},
	}
	for _, tc := range tests {
		if got := truncateTitle(tc.seed); got != tc.want {
			t.Errorf("truncateTitle(%q) = %q, want %q", tc.seed, got, tc.want)
		}
	}
}

func TestValidatePrompt(t *testing.T) {
	if err := validatePrompt(nil); err == nil {
		t.Error("expected error for empty prompt")
	}
	if err := validatePrompt([]models.PromptMessage{{Role: "bot", Content: "x"}}); err == nil {
		t.Error("expected error for invalid role")
	}
	ok := []models.PromptMessage{
		{Role: models.RoleSystem, Content: "s"},
		{Role: models.RoleUser, Content: "u"},
		{Role: models.RoleAssistant, Content: "a"},
	}
	if err := validatePrompt(ok); err != nil {
		t.Errorf("unexpected error for valid prompt: %v", err)
	}
}

// completionServer fakes an OpenAI-compatible chat completions endpoint.
func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"backend unhappy","type":"server_error"}}`))
			return
		}
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "` + content + `"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
		}`))
	}))
}

func TestOpenAIProvider_GenerateResponse(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "sure, here you go")
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL+"/v1", zap.NewNop())
	got, err := p.GenerateResponse(context.Background(), promptWith("help me"), "gpt-4.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sure, here you go" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestOpenAIProvider_GenerateResponse_BackendError(t *testing.T) {
	srv := completionServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL+"/v1", zap.NewNop())
	_, err := p.GenerateResponse(context.Background(), promptWith("help me"), "gpt-4.1")
	if err == nil {
		t.Fatal("expected error for 500 backend response")
	}
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if provErr.Provider != "openai" {
		t.Errorf("provider = %q, want openai", provErr.Provider)
	}
	if provErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", provErr.StatusCode, http.StatusInternalServerError)
	}
}

func TestOpenAIProvider_GenerateResponse_RejectsEmptyPrompt(t *testing.T) {
	p := NewOpenAIProvider("test-key", "", zap.NewNop())
	if _, err := p.GenerateResponse(context.Background(), nil, "gpt-4.1"); err == nil {
		t.Fatal("expected validation error before any network call")
	}
}

func TestOpenAIProvider_GenerateTitle_FallsBackOnFailure(t *testing.T) {
	srv := completionServer(t, http.StatusBadGateway, "")
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL+"/v1", zap.NewNop())

	seed := "please explain how garbage collection works in detail"
	got, err := p.GenerateTitle(context.Background(), seed, "gpt-4.1")
	if err != nil {
		t.Fatalf("title generation must not propagate backend failures, got: %v", err)
	}
	if want := truncateTitle(seed); got != want {
		t.Errorf("fallback title = %q, want %q", got, want)
	}

	short := "short seed"
	got, err = p.GenerateTitle(context.Background(), short, "gpt-4.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != short {
		t.Errorf("fallback title = %q, want seed unchanged %q", got, short)
	}
}

func TestGroqProvider_GenerateResponse(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "groq says hello")
	defer srv.Close()

	p := NewGroqProvider("test-key", srv.URL+"/v1", zap.NewNop())
	got, err := p.GenerateResponse(context.Background(), promptWith("hey"), "llama-3.3-70b-versatile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "groq says hello" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestGroqProvider_GenerateTitle(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "  Garbage Collection Explained ")
	defer srv.Close()

	p := NewGroqProvider("test-key", srv.URL+"/v1", zap.NewNop())
	got, err := p.GenerateTitle(context.Background(), "explain gc", "llama-3.3-70b-versatile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Garbage Collection Explained" {
		t.Errorf("title = %q, want trimmed backend title", got)
	}
}
