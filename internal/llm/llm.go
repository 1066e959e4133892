package llm

import (
	"context"
	"fmt"

	"github.com/tahcohcat/coach-pro/config"
)

// Turn is one prior message of the conversation context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLM defines the interface for the AI coach providers.
type LLM interface {

	// Complete generates a coach reply given the system context, the
	// recent turns (oldest first) and the new user message. Calls are
	// bounded by the provider's configured timeout.
	Complete(ctx context.Context, system string, turns []Turn, message string) (string, error)

	// IsModelAvailable checks if the configured model is available
	IsModelAvailable(ctx context.Context) error
}

type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderNone   Provider = "none"
)

// NewLLMClient creates a new LLM client based on the configuration.
// Provider "none" returns nil: the coach then answers free chat with the
// canned responder only.
func NewLLMClient(cfg *config.Config) (LLM, error) {
	switch Provider(cfg.LLM.Provider) {
	case ProviderOllama:
		return NewOllamaClient(&cfg.Ollama)
	case ProviderOpenAI:
		return NewOpenAIClient(&cfg.OpenAI)
	case ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}
