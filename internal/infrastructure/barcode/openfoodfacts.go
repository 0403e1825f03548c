// Package barcode consulta catálogos externos de productos por código de barras.
package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
)

var _ ports.BarcodeLookup = (*OpenFoodFacts)(nil)

const offFields = "code,product_name,product_name_es,brands,categories,quantity,image_front_url,image_url,nutriments,serving_quantity"

// OpenFoodFacts cliente de la API v2 de Open Food Facts (o un espejo compatible).
type OpenFoodFacts struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenFoodFacts construye el cliente. timeout 0 = 5 s.
func NewOpenFoodFacts(baseURL string, timeout time.Duration) *OpenFoodFacts {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OpenFoodFacts{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type offResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

type offProduct struct {
	Code            string          `json:"code"`
	ProductName     string          `json:"product_name"`
	ProductNameES   string          `json:"product_name_es"`
	Brands          string          `json:"brands"`
	Categories      string          `json:"categories"`
	Quantity        string          `json:"quantity"`
	ImageFrontURL   string          `json:"image_front_url"`
	ImageURL        string          `json:"image_url"`
	Nutriments      map[string]any  `json:"nutriments"`
	ServingQuantity json.RawMessage `json:"serving_quantity"`
}

// Lookup consulta el código. (nil, nil) si el catálogo no lo conoce.
func (c *OpenFoodFacts) Lookup(ctx context.Context, code string) (*dto.BarcodeProductDTO, error) {
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json?fields=%s", c.baseURL, url.PathEscape(code), offFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("User-Agent", "despensa-api/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: open food facts: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: open food facts HTTP %d", domain.ErrExternalService, resp.StatusCode)
	}

	var body offResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: open food facts respuesta inválida: %v", domain.ErrExternalService, err)
	}
	if body.Status != 1 || body.Product == nil {
		return nil, nil
	}
	return toDTO(code, body.Product), nil
}

func toDTO(code string, p *offProduct) *dto.BarcodeProductDTO {
	name := strings.TrimSpace(p.ProductNameES)
	if name == "" {
		name = strings.TrimSpace(p.ProductName)
	}
	out := &dto.BarcodeProductDTO{
		Barcode:  code,
		Name:     name,
		Brand:    firstOf(p.Brands),
		Category: firstOf(p.Categories),
		Quantity: strings.TrimSpace(p.Quantity),
		ImageURL: p.ImageFrontURL,
	}
	if out.ImageURL == "" {
		out.ImageURL = p.ImageURL
	}
	out.Nutrition = nutrition(p)
	return out
}

// firstOf primer elemento de una lista separada por comas.
func firstOf(list string) string {
	first, _, _ := strings.Cut(list, ",")
	first = strings.TrimSpace(first)
	// Open Food Facts prefija las etiquetas con el idioma ("en:snacks").
	if len(first) > 3 && first[2] == ':' {
		first = first[3:]
	}
	return first
}

// nutrition traduce los nutrientes por 100 g. Sin calorías no se considera ficha válida.
func nutrition(p *offProduct) *dto.NutritionResponse {
	kcal, ok := nutriment(p.Nutriments, "energy-kcal_100g")
	if !ok {
		return nil
	}
	n := &dto.NutritionResponse{Calories: kcal, Source: "barcode"}
	n.Protein, _ = nutriment(p.Nutriments, "proteins_100g")
	n.Carbohydrates, _ = nutriment(p.Nutriments, "carbohydrates_100g")
	n.Fat, _ = nutriment(p.Nutriments, "fat_100g")
	n.Fiber, _ = nutriment(p.Nutriments, "fiber_100g")
	n.Sugar, _ = nutriment(p.Nutriments, "sugars_100g")
	if sodium, ok := nutriment(p.Nutriments, "sodium_100g"); ok {
		n.Sodium = sodium.Mul(decimal.NewFromInt(1000)).Round(2) // g -> mg
	}
	if serving, err := decimal.NewFromString(strings.Trim(string(p.ServingQuantity), `"`)); err == nil {
		n.ServingSizeGrams = serving
	}
	return n
}

func nutriment(m map[string]any, key string) (decimal.Decimal, bool) {
	switch v := m[key].(type) {
	case float64:
		return decimal.NewFromFloat(v).Round(2), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, false
		}
		return d.Round(2), true
	}
	return decimal.Zero, false
}
