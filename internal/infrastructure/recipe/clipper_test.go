package recipe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/domain"
)

const jsonLDPage = `<!doctype html>
<html><head><title>Blog de cocina</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebPage","name":"Página"},
  {"@type":["Recipe","NewsArticle"],"name":"Arroz con pollo",
   "recipeYield":["4","4 porciones"],
   "recipeIngredient":["2 tazas de arroz","  1 pollo   entero ",""],
   "recipeInstructions":[
     {"@type":"HowToSection","itemListElement":[{"@type":"HowToStep","text":"Dorar el pollo."}]},
     {"@type":"HowToStep","text":"Agregar el arroz."}
   ]}
]}
</script></head><body><h1>Otro título</h1></body></html>`

const markupPage = `<html><head><title>Sopa | Recetas</title>
<meta property="og:title" content="Sopa de verduras"></head>
<body>
<div class="recipe-ingredients"><ul><li>1 zanahoria</li><li>2 papas</li><li>1 zanahoria</li></ul></div>
<ol id="preparation-steps"><li>Picar.</li><li>Hervir 20 minutos.</li></ol>
</body></html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClip_JSONLD(t *testing.T) {
	srv := serve(t, http.StatusOK, jsonLDPage)

	rec, err := NewClipper(0).Clip(context.Background(), srv.URL+"/arroz")
	require.NoError(t, err)
	assert.Equal(t, "Arroz con pollo", rec.Title)
	assert.Equal(t, 4, rec.Servings)
	assert.Equal(t, []string{"2 tazas de arroz", "1 pollo entero"}, rec.Ingredients)
	assert.Equal(t, []string{"Dorar el pollo.", "Agregar el arroz."}, rec.Steps)
	assert.Equal(t, srv.URL+"/arroz", rec.SourceURL)
}

func TestClip_MarkupFallback(t *testing.T) {
	srv := serve(t, http.StatusOK, markupPage)

	rec, err := NewClipper(0).Clip(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Sopa de verduras", rec.Title)
	assert.Equal(t, []string{"1 zanahoria", "2 papas"}, rec.Ingredients)
	assert.Equal(t, []string{"Picar.", "Hervir 20 minutos."}, rec.Steps)
}

func TestClip_Errors(t *testing.T) {
	c := NewClipper(0)

	_, err := c.Clip(context.Background(), "ftp://example.com/receta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	notFound := serve(t, http.StatusNotFound, "")
	_, err = c.Clip(context.Background(), notFound.URL)
	assert.ErrorIs(t, err, domain.ErrExternalService)

	empty := serve(t, http.StatusOK, "<html><body><p>Sin receta</p></body></html>")
	_, err = c.Clip(context.Background(), empty.URL)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseYield(t *testing.T) {
	assert.Equal(t, 6, parseYield("Rinde 6 porciones"))
	assert.Equal(t, 2, parseYield(float64(2)))
	assert.Equal(t, 0, parseYield(nil))
}
