package ai

import (
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/pkg/config"
)

// NewRecipeAdvisor elige el proveedor según AI_PROVIDER. Devuelve nil si el proveedor
// no tiene credenciales; el caso de uso responde entonces ErrExternalService.
func NewRecipeAdvisor(cfg config.AIConfig) ports.RecipeAdvisor {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil
		}
		return NewAnthropicService("", cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		return NewGeminiService("", cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		if cfg.BaseURL == "" {
			return nil
		}
		return NewOpenAIService(cfg.BaseURL, cfg.APIKey, cfg.Model)
	}
}
