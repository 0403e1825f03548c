package barcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain"
)

const offBody = `{
  "status": 1,
  "product": {
    "code": "7702001",
    "product_name": "Arroz Blanco",
    "product_name_es": "Arroz blanco Diana",
    "brands": "Diana, Grupo Diana",
    "categories": "en:cereals, en:rice",
    "quantity": "1 kg",
    "image_front_url": "https://img/arroz.jpg",
    "serving_quantity": "50",
    "nutriments": {
      "energy-kcal_100g": 358,
      "proteins_100g": 6.6,
      "carbohydrates_100g": 79.3,
      "fat_100g": "0.6",
      "sodium_100g": 0.005
    }
  }
}`

func TestOpenFoodFacts_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/7702001.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(offBody))
	}))
	defer srv.Close()

	p, err := NewOpenFoodFacts(srv.URL, time.Second).Lookup(context.Background(), "7702001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Arroz blanco Diana", p.Name)
	assert.Equal(t, "Diana", p.Brand)
	assert.Equal(t, "cereals", p.Category)
	assert.Equal(t, "1 kg", p.Quantity)
	assert.Equal(t, "https://img/arroz.jpg", p.ImageURL)
	require.NotNil(t, p.Nutrition)
	assert.True(t, decimal.NewFromInt(358).Equal(p.Nutrition.Calories))
	assert.True(t, decimal.RequireFromString("0.6").Equal(p.Nutrition.Fat))
	assert.True(t, decimal.NewFromInt(5).Equal(p.Nutrition.Sodium), "sodio en mg")
	assert.True(t, decimal.NewFromInt(50).Equal(p.Nutrition.ServingSizeGrams))
}

func TestOpenFoodFacts_Desconocido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	}))
	defer srv.Close()

	p, err := NewOpenFoodFacts(srv.URL, time.Second).Lookup(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestOpenFoodFacts_ErrorServidor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewOpenFoodFacts(srv.URL, time.Second).Lookup(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestFirstOf(t *testing.T) {
	assert.Equal(t, "snacks", firstOf("en:snacks, en:sweet"))
	assert.Equal(t, "Colanta", firstOf(" Colanta "))
	assert.Equal(t, "", firstOf(""))
}

type countingLookup struct {
	calls  int
	result *dto.BarcodeProductDTO
}

func (c *countingLookup) Lookup(context.Context, string) (*dto.BarcodeProductDTO, error) {
	c.calls++
	return c.result, nil
}

func newTestCache(t *testing.T, inner *countingLookup, ttl time.Duration) *CachedLookup {
	t.Helper()
	db, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCachedLookup(inner, db, ttl, nil)
}

func TestCachedLookup_Acierto(t *testing.T) {
	inner := &countingLookup{result: &dto.BarcodeProductDTO{Barcode: "1", Name: "Leche"}}
	c := newTestCache(t, inner, time.Hour)

	for range 3 {
		p, err := c.Lookup(context.Background(), "1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Leche", p.Name)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedLookup_CacheaDesconocidos(t *testing.T) {
	inner := &countingLookup{}
	c := newTestCache(t, inner, time.Hour)

	for range 2 {
		p, err := c.Lookup(context.Background(), "404")
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedLookup_Expira(t *testing.T) {
	inner := &countingLookup{result: &dto.BarcodeProductDTO{Barcode: "1", Name: "Pan"}}
	c := newTestCache(t, inner, time.Hour)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Lookup(context.Background(), "1")
	require.NoError(t, err)

	c.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = c.Lookup(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
