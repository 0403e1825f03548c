package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/pkg/config"
)

const recipesJSON = `{"recipes":[
	{"title":"Tortilla de espinaca","ingredients":["4 huevos","espinaca"],"steps":["Batir","Cocinar"],"uses_expiring":["ESPINACA","queso azul"]},
	{"title":"  ","ingredients":[]},
	{"title":"Arroz con huevo","ingredients":["arroz","huevo"]}
]}`

func testPrompt() dto.RecipePrompt {
	return dto.RecipePrompt{
		Expiring:    []string{"Espinaca"},
		OnHand:      []string{"Espinaca", "Huevos", "Arroz"},
		MaxRecipes:  3,
		Preferences: "sin cerdo",
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"markdown", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose", "Claro, aquí está: {\"a\":1} ¡buen provecho!", `{"a":1}`},
		{"none", "sin json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestParseRecipes_FiltersAndCanonicalizes(t *testing.T) {
	out, err := parseRecipes("test", "```json\n"+recipesJSON+"\n```", testPrompt())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Tortilla de espinaca", out[0].Title)
	assert.Equal(t, []string{"Espinaca"}, out[0].UsesExpiring)
	assert.Empty(t, out[1].UsesExpiring)
	assert.NotNil(t, out[1].Steps)

	_, err = parseRecipes("test", "no hay recetas", testPrompt())
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestBuildUserPrompt(t *testing.T) {
	p := buildUserPrompt(testPrompt())
	assert.Contains(t, p, "Propón 3 recetas.")
	assert.Contains(t, p, "Ingredientes por vencer: Espinaca")
	assert.Contains(t, p, "Ingredientes disponibles: Espinaca, Huevos, Arroz")
	assert.Contains(t, p, "Preferencias: sin cerdo")
}

func TestOpenAIService_SuggestRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": recipesJSON}}},
		})
	}))
	defer srv.Close()

	svc := NewOpenAIService(srv.URL+"/", "sk-test", "gpt-test")
	out, err := svc.SuggestRecipes(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestOpenAIService_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"requests"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIService(srv.URL, "", "m").SuggestRecipes(context.Background(), testPrompt())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestAnthropicService_SuggestRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "Aquí van:\n" + recipesJSON}},
		})
	}))
	defer srv.Close()

	out, err := NewAnthropicService(srv.URL, "key", "claude").SuggestRecipes(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "Arroz con huevo", out[1].Title)
}

func TestAnthropicService_MissingKey(t *testing.T) {
	_, err := NewAnthropicService("", "", "claude").SuggestRecipes(context.Background(), testPrompt())
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestGeminiService_SuggestRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "gk", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{"content": map[string]any{"parts": []map[string]string{{"text": recipesJSON}}}}},
		})
	}))
	defer srv.Close()

	out, err := NewGeminiService(srv.URL, "gk", "gemini-test").SuggestRecipes(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestNewRecipeAdvisor(t *testing.T) {
	assert.Nil(t, NewRecipeAdvisor(config.AIConfig{Provider: "anthropic"}))
	assert.Nil(t, NewRecipeAdvisor(config.AIConfig{Provider: "gemini"}))
	assert.Nil(t, NewRecipeAdvisor(config.AIConfig{Provider: "openai"}))

	assert.IsType(t, &AnthropicService{}, NewRecipeAdvisor(config.AIConfig{Provider: "anthropic", AnthropicAPIKey: "k"}))
	assert.IsType(t, &GeminiService{}, NewRecipeAdvisor(config.AIConfig{Provider: "gemini", GeminiAPIKey: "k"}))
	assert.IsType(t, &OpenAIService{}, NewRecipeAdvisor(config.AIConfig{Provider: "openai", BaseURL: "http://localhost:11434"}))
}
