package ai

import (
	"fmt"

	"github.com/jhoicas/pos-insights-api/internal/application/ports"
)

// ProviderConfig selección y credenciales del proveedor remoto.
type ProviderConfig struct {
	Provider        string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
}

// NewProvider devuelve el adaptador configurado, o (nil, nil) si no hay proveedor
// o falta su API key: en ese caso el asistente usa solo la cascada local.
func NewProvider(cfg ProviderConfig, opts ...Option) (ports.LLMService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, opts...), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, opts...), nil
	default:
		return nil, fmt.Errorf("AI: proveedor desconocido %q", cfg.Provider)
	}
}
