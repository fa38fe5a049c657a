package handlers

import (
	"net/http"

	"minichat-backend/internal/models"
	"minichat-backend/internal/services"
)

// availableModels is the static list of selectable models offered to the UI.
var availableModels = []models.ModelInfo{
	{Name: "gemma2-9b-it", Provider: "groq"},
	{Name: "llama-3.1-8b-instant", Provider: "groq"},
	{Name: "llama-3.3-70b-versatile", Provider: "groq"},
	{Name: "deepseek-r1-distill-llama-70b", Provider: "groq"},
	{Name: "qwen/qwen3-32b", Provider: "groq"},
	{Name: "mistral-saba-24b", Provider: "groq"},
	{Name: "gpt-4.1", Provider: "openai"},
	{Name: "gpt-4.1-nano", Provider: "openai"},
	{Name: "o4-mini", Provider: "openai"},
}

// ModelHandlers serves model and provider metadata.
type ModelHandlers struct {
	container *services.Container
}

// NewModelHandlers creates a new ModelHandlers instance.
func NewModelHandlers(container *services.Container) *ModelHandlers {
	return &ModelHandlers{container: container}
}

// HandleListModels returns the selectable model references.
func (h *ModelHandlers) HandleListModels(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, availableModels)
}

// HandleProviderInfo reports which provider variant is active, for diagnostics.
func (h *ModelHandlers) HandleProviderInfo(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"provider": h.container.Label()})
}
