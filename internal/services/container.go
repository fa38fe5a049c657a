package services

import (
	"sync"

	"minichat-backend/internal/ai"
	"minichat-backend/internal/config"
	"minichat-backend/internal/store"

	"go.uber.org/zap"
)

// Container resolves which AI provider variant is active and shares it,
// together with the ContextManager, across all requests. It is constructed
// once at process start and injected; after that it is read-mostly, so it is
// safe for concurrent requests. SetProvider allows a runtime override
// (testing, manual switch) without restarting the process.
type Container struct {
	mu             sync.RWMutex
	provider       ai.Provider
	label          string
	contextManager *ContextManager
}

// NewContainer selects the provider from configuration: the hosted family
// named by AI_PROVIDER is chosen only when its credential is present;
// otherwise the offline mock variant is used so the system remains fully
// exercisable without external dependencies.
func NewContainer(cfg *config.Config, st store.Store, logger *zap.Logger) *Container {
	c := &Container{
		contextManager: NewContextManager(st, cfg.ContextMaxMessages, logger),
	}

	switch {
	case cfg.AIProvider == config.ProviderOpenAI && cfg.OpenAIKey != "":
		c.provider = ai.NewOpenAIProvider(cfg.OpenAIKey, "", logger)
		c.label = config.ProviderOpenAI
	case cfg.AIProvider == config.ProviderGroq && cfg.GroqKey != "":
		c.provider = ai.NewGroqProvider(cfg.GroqKey, "", logger)
		c.label = config.ProviderGroq
	default:
		c.provider = ai.NewMockProvider()
		c.label = config.ProviderMock
	}

	logger.Info("AI provider selected", zap.String("provider", c.label))
	return c
}

// Provider returns the active AI provider.
func (c *Container) Provider() ai.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provider
}

// ContextManager returns the shared context assembler.
func (c *Container) ContextManager() *ContextManager {
	return c.contextManager
}

// Label returns a human-readable name of the active provider variant.
func (c *Container) Label() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.label
}

// SetProvider replaces the active provider at runtime.
func (c *Container) SetProvider(p ai.Provider, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = p
	c.label = label
}
