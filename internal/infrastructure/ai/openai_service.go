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

var _ ports.RecipeAdvisor = (*OpenAIService)(nil)

// OpenAIService adaptador para cualquier endpoint compatible con /v1/chat/completions
// (OpenAI, Azure, Ollama, vLLM, LM Studio...).
type OpenAIService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIService construye el adaptador. apiKey puede estar vacío para servidores locales.
func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	return &OpenAIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float32        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// SuggestRecipes envía el prompt como conversación system+user y parsea el JSON de la respuesta.
func (s *OpenAIService) SuggestRecipes(ctx context.Context, prompt dto.RecipePrompt) ([]dto.RecipeSuggestionDTO, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("%w: AI_BASE_URL no configurado", domain.ErrExternalService)
	}
	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: recipeSystemPrompt},
			{Role: "user", Content: buildUserPrompt(prompt)},
		},
		Temperature:    0.7,
		ResponseFormat: map[string]any{"type": "json_object"},
	}
	var headers map[string]string
	if s.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + s.apiKey}
	}

	rawBody, status, err := postJSON(ctx, s.httpClient, s.baseURL+"/v1/chat/completions", headers, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		var errResp chatResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, httpError("OpenAI", status, errResp.Error.Message)
		}
		return nil, httpError("OpenAI", status, "")
	}

	var chat chatResponse
	if err := json.Unmarshal(rawBody, &chat); err != nil {
		return nil, fmt.Errorf("%w: deserializar respuesta OpenAI: %v", domain.ErrExternalService, err)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: el modelo devolvió respuesta vacía", domain.ErrExternalService)
	}
	return parseRecipes("OpenAI", chat.Choices[0].Message.Content, prompt)
}
