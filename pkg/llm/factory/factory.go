package factory

import (
	"context"
	"fmt"

	"mondichat-be/pkg/llm"
	"mondichat-be/pkg/llm/gemini"
	"mondichat-be/pkg/llm/huggingface"
	"mondichat-be/pkg/llm/ollama"
)

type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// NewLLMProvider builds the configured backend. Providers that need an API
// key fail when it is missing so the caller can degrade to llm.Unconfigured.
func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "huggingface":
		if s.APIKey == "" {
			return nil, fmt.Errorf("huggingface: %w", llm.ErrNotConfigured)
		}
		return huggingface.NewHuggingFaceProvider(s.APIKey, s.BaseURL, s.Model), nil
	case "gemini", "":
		if s.APIKey == "" {
			return nil, fmt.Errorf("gemini: %w", llm.ErrNotConfigured)
		}
		return gemini.NewGeminiProvider(ctx, s.APIKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
