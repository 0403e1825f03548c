package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
)

// Verificar en tiempo de compilación que AnthropicService implementa RecipeAdvisor.
var _ ports.RecipeAdvisor = (*AnthropicService)(nil)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// AnthropicService adaptador que implementa RecipeAdvisor usando la API REST de Anthropic (Claude).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AnthropicService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador. baseURL vacío = API pública de Anthropic.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(baseURL, apiKey, model string) *AnthropicService {
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	return &AnthropicService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			// Timeout de red de 25 s; el use case impone además un context.WithTimeout.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// SuggestRecipes envía el estado de la despensa a Claude y devuelve las recetas propuestas.
func (s *AnthropicService) SuggestRecipes(ctx context.Context, prompt dto.RecipePrompt) ([]dto.RecipeSuggestionDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY no configurado", domain.ErrExternalService)
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 2048,
		System:    recipeSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildUserPrompt(prompt)},
		},
	}
	headers := map[string]string{
		"x-api-key":         s.apiKey,
		"anthropic-version": anthropicVersion,
	}
	rawBody, status, err := postJSON(ctx, s.httpClient, s.baseURL+"/v1/messages", headers, payload)
	if err != nil {
		return nil, err
	}

	// Manejar errores HTTP de la API de Anthropic
	if status != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, httpError("Anthropic", status, errResp.Error.Type+": "+errResp.Error.Message)
		}
		return nil, httpError("Anthropic", status, "")
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("%w: deserializar respuesta Anthropic: %v", domain.ErrExternalService, err)
	}

	var text strings.Builder
	for _, c := range anthResp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: Claude devolvió respuesta vacía", domain.ErrExternalService)
	}
	return parseRecipes("Anthropic", text.String(), prompt)
}
