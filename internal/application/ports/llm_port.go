package ports

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/application/dto"
)

// RecipeAdvisor define el puerto de salida hacia el modelo de lenguaje que propone recetas.
// Cualquier adaptador (OpenAI-compatible, Anthropic, mock) debe implementar esta interfaz;
// la aplicación solo conoce este contrato, no la implementación concreta.
type RecipeAdvisor interface {
	// SuggestRecipes propone recetas priorizando los ingredientes por vencer.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	SuggestRecipes(ctx context.Context, prompt dto.RecipePrompt) ([]dto.RecipeSuggestionDTO, error)
}
