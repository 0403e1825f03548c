package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/shopping"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	apphttp "github.com/jhoicas/despensa-api/internal/interfaces/http"
	"github.com/jhoicas/despensa-api/internal/testutil/memstore"
	"github.com/jhoicas/despensa-api/internal/testutil/mocks"
)

const (
	testStoreID   = "00000000-0000-0000-0000-0000000000a1"
	testProductID = "00000000-0000-0000-0000-0000000000b1"
)

// newShoppingApp monta el router real con solo el caso de uso de listas.
func newShoppingApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Households().Create(ctx, &entity.Household{ID: testHouseholdID, Name: "Casa", Currency: "COP"}))
	require.NoError(t, s.Stores().Create(ctx, &entity.Store{ID: testStoreID, HouseholdID: testHouseholdID, Name: "D1"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: testProductID, HouseholdID: testHouseholdID, Name: "Leche", Category: "dairy", DefaultUnit: "l"}))

	uc := shopping.NewUseCase(s.ShoppingLists(), s.Products(), s.Prices(), s.Stores(), s.Households(), new(mocks.MockPDFGenerator), s)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{Shopping: uc, JWTSecret: testJWTSecret})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleMember))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestShoppingHandler_FlujoCompleto(t *testing.T) {
	app := newShoppingApp(t)

	resp, raw := call(t, app, http.MethodPost, "/api/shopping-lists", `{"name":"Semana","store_id":"`+testStoreID+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var list dto.ShoppingListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, entity.ShoppingListActive, list.Status)

	resp, raw = call(t, app, http.MethodPost, "/api/shopping-lists/"+list.ID+"/items", `{"product_id":"`+testProductID+`","quantity":"2","unit":"l"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var item dto.ShoppingListItemResponse
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, "Leche", item.Name)
	assert.False(t, item.Checked)

	resp, raw = call(t, app, http.MethodPost, "/api/shopping-lists/"+list.ID+"/items/"+item.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.True(t, item.Checked)

	resp, raw = call(t, app, http.MethodGet, "/api/shopping-lists/"+list.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
}

func TestShoppingHandler_Errores(t *testing.T) {
	app := newShoppingApp(t)

	cases := map[string]struct {
		method string
		path   string
		body   string
		status int
		code   string
	}{
		"id no UUID":      {http.MethodGet, "/api/shopping-lists/abc", "", http.StatusBadRequest, "INVALID_ID"},
		"lista no existe": {http.MethodGet, "/api/shopping-lists/00000000-0000-0000-0000-0000000000ff", "", http.StatusNotFound, "NOT_FOUND"},
		"cuerpo inválido": {http.MethodPost, "/api/shopping-lists", `{"name":`, http.StatusBadRequest, "INVALID_BODY"},
		"sin nombre":      {http.MethodPost, "/api/shopping-lists", `{"name":""}`, http.StatusBadRequest, "VALIDATION"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, raw := call(t, app, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(raw))
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
