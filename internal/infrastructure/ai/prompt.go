package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
)

// recipeSystemPrompt es común a todos los proveedores: define el rol y el formato de salida.
const recipeSystemPrompt = `Eres un cocinero casero que ayuda a una familia a aprovechar su despensa.
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código` + " ```json" + `) con esta estructura exacta:
{
  "recipes": [
    {
      "title": "<nombre corto de la receta>",
      "ingredients": ["<ingrediente con cantidad aproximada>"],
      "steps": ["<paso breve>"],
      "uses_expiring": ["<ingredientes por vencer que usa la receta>"]
    }
  ]
}

Reglas:
- Prioriza los ingredientes por vencer; cada receta debe usar al menos uno si los hay.
- Usa principalmente ingredientes disponibles; sal, aceite y especias básicas se asumen.
- uses_expiring solo puede contener nombres de la lista de ingredientes por vencer.
- Responde en español. No incluyas texto fuera del JSON.`

// maxResponseBytes límite de lectura del cuerpo de respuesta de los proveedores.
const maxResponseBytes = 256 * 1024

type recipesPayload struct {
	Recipes []dto.RecipeSuggestionDTO `json:"recipes"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
// Captura desde el primer '{' hasta el último '}' coincidente.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// buildUserPrompt arma el mensaje del usuario con el estado de la despensa.
func buildUserPrompt(p dto.RecipePrompt) string {
	var b strings.Builder
	n := p.MaxRecipes
	if n <= 0 {
		n = 3
	}
	fmt.Fprintf(&b, "Propón %d recetas.\n", n)
	if len(p.Expiring) > 0 {
		fmt.Fprintf(&b, "Ingredientes por vencer: %s\n", strings.Join(p.Expiring, ", "))
	}
	fmt.Fprintf(&b, "Ingredientes disponibles: %s\n", strings.Join(p.OnHand, ", "))
	if pref := strings.TrimSpace(p.Preferences); pref != "" {
		fmt.Fprintf(&b, "Preferencias: %s\n", pref)
	}
	return b.String()
}

// parseRecipes interpreta el texto del modelo. Recetas sin título se descartan;
// uses_expiring se filtra contra los ingredientes realmente por vencer.
func parseRecipes(provider, raw string, p dto.RecipePrompt) ([]dto.RecipeSuggestionDTO, error) {
	cleanJSON := extractJSON(raw)
	if cleanJSON == "" {
		return nil, fmt.Errorf("%w: %s no devolvió JSON (respuesta: %.200s)", domain.ErrExternalService, provider, raw)
	}
	var payload recipesPayload
	if err := json.Unmarshal([]byte(cleanJSON), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s JSON inválido: %v", domain.ErrExternalService, provider, err)
	}

	expiring := make(map[string]string, len(p.Expiring))
	for _, name := range p.Expiring {
		expiring[strings.ToLower(strings.TrimSpace(name))] = name
	}
	out := make([]dto.RecipeSuggestionDTO, 0, len(payload.Recipes))
	for _, r := range payload.Recipes {
		r.Title = strings.TrimSpace(r.Title)
		if r.Title == "" {
			continue
		}
		uses := make([]string, 0, len(r.UsesExpiring))
		for _, name := range r.UsesExpiring {
			if canonical, ok := expiring[strings.ToLower(strings.TrimSpace(name))]; ok {
				uses = append(uses, canonical)
			}
		}
		r.UsesExpiring = uses
		if r.Ingredients == nil {
			r.Ingredients = []string{}
		}
		if r.Steps == nil {
			r.Steps = []string{}
		}
		out = append(out, r)
	}
	if p.MaxRecipes > 0 && len(out) > p.MaxRecipes {
		out = out[:p.MaxRecipes]
	}
	return out, nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		// Quitar la línea de apertura (```json o ```)
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}

	if strings.HasPrefix(text, "{") {
		return text
	}

	// Fallback: regex para extraer el primer {...}
	match := jsonBlockRe.FindString(text)
	return strings.TrimSpace(match)
}

// httpError construye el error de un proveedor que respondió con estado distinto de 200.
func httpError(provider string, status int, detail string) error {
	if detail == "" {
		return fmt.Errorf("%w: %s HTTP %d", domain.ErrExternalService, provider, status)
	}
	return fmt.Errorf("%w: %s HTTP %d: %s", domain.ErrExternalService, provider, status, detail)
}

// postJSON envía payload como JSON y devuelve el cuerpo (limitado) y el código de estado.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("AI: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("%w: timeout o cancelación: %v", domain.ErrExternalService, ctx.Err())
		}
		return nil, 0, fmt.Errorf("%w: llamada HTTP fallida: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: leer respuesta: %v", domain.ErrExternalService, err)
	}
	return raw, resp.StatusCode, nil
}
