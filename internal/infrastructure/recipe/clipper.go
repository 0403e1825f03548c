// Package recipe extrae recetas de páginas web para agendarlas en el plan de comidas.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
)

var _ ports.RecipeClipper = (*Clipper)(nil)

const maxPageBytes = 5 << 20

// Clipper descarga la página y extrae la receta: primero del JSON-LD schema.org/Recipe,
// si no existe, de las listas bajo un contenedor de "ingredientes".
type Clipper struct {
	httpClient *http.Client
}

// NewClipper construye el clipper con el timeout de red indicado (0 = 15 s).
func NewClipper(timeout time.Duration) *Clipper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Clipper{httpClient: &http.Client{Timeout: timeout}}
}

// Clip descarga rawURL y devuelve la receta encontrada.
func (c *Clipper) Clip(ctx context.Context, rawURL string) (*dto.ClippedRecipe, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("url de receta inválida: %w", domain.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("User-Agent", "despensa-api/1.0 (+recipe clipper)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: descargar receta: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: descargar receta: status %d", domain.ErrExternalService, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parsear HTML: %v", domain.ErrExternalService, err)
	}

	rec := fromJSONLD(doc)
	if rec == nil {
		rec = fromMarkup(doc)
	}
	if rec == nil || len(rec.Ingredients) == 0 {
		return nil, fmt.Errorf("la página no contiene una receta reconocible: %w", domain.ErrInvalidInput)
	}
	rec.SourceURL = u.String()
	if rec.Title == "" {
		rec.Title = pageTitle(doc)
	}
	return rec, nil
}

// ── JSON-LD ───────────────────────────────────────────────────────────────────

func fromJSONLD(doc *goquery.Document) *dto.ClippedRecipe {
	var found *dto.ClippedRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if node := findRecipeNode(data); node != nil {
			found = recipeFromNode(node)
			return false
		}
		return true
	})
	return found
}

// findRecipeNode busca un nodo @type Recipe en objetos, arreglos y @graph.
func findRecipeNode(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if n := findRecipeNode(item); n != nil {
				return n
			}
		}
	case map[string]any:
		if isRecipeType(t["@type"]) {
			return t
		}
		if g, ok := t["@graph"]; ok {
			return findRecipeNode(g)
		}
	}
	return nil
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "Recipe")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

func recipeFromNode(n map[string]any) *dto.ClippedRecipe {
	rec := &dto.ClippedRecipe{
		Title:       cleanText(stringOf(n["name"])),
		Servings:    parseYield(n["recipeYield"]),
		Ingredients: stringList(n["recipeIngredient"]),
		Steps:       instructionList(n["recipeInstructions"]),
	}
	if len(rec.Ingredients) == 0 {
		// esquema antiguo
		rec.Ingredients = stringList(n["ingredients"])
	}
	return rec
}

func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		if len(t) > 0 {
			return stringOf(t[0])
		}
	}
	return ""
}

func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := cleanText(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			if s := cleanText(stringOf(item)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// instructionList aplana texto plano, HowToStep y HowToSection.
func instructionList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, line := range strings.Split(t, "\n") {
			if s := cleanText(line); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			out = append(out, instructionList(item)...)
		}
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return instructionList(items)
		}
		if s := cleanText(stringOf(t["text"])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseYield toma el primer número de recipeYield ("4 porciones", 4, ["4", "4 porciones"]).
func parseYield(v any) int {
	s := stringOf(v)
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[start:end])
	return n
}

// ── Fallback sobre el marcado ─────────────────────────────────────────────────

func fromMarkup(doc *goquery.Document) *dto.ClippedRecipe {
	ingredients := listUnder(doc, "ingredient")
	if len(ingredients) == 0 {
		return nil
	}
	rec := &dto.ClippedRecipe{
		Title:       cleanText(doc.Find("h1").First().Text()),
		Ingredients: ingredients,
	}
	for _, key := range []string{"instruction", "direction", "preparation", "preparacion", "step", "paso"} {
		if steps := listUnder(doc, key); len(steps) > 0 {
			rec.Steps = steps
			break
		}
	}
	return rec
}

// listUnder devuelve los li de los contenedores cuyo class o id contiene key (sin duplicados).
func listUnder(doc *goquery.Document, key string) []string {
	title := strings.ToUpper(key[:1]) + key[1:]
	sel := fmt.Sprintf(`[class*="%[1]s"] li, [id*="%[1]s"] li, [class*="%[2]s"] li, [id*="%[2]s"] li`, key, title)
	seen := map[string]bool{}
	var out []string
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		if s.Find("li").Length() > 0 {
			return
		}
		text := cleanText(s.Text())
		if text != "" && !seen[text] {
			seen[text] = true
			out = append(out, text)
		}
	})
	return out
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return cleanText(og)
	}
	return cleanText(doc.Find("title").First().Text())
}

// cleanText colapsa espacios y saltos de línea.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
