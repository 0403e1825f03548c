package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/pkg/validator"
)

type itemRequest struct {
	Name     string          `json:"name" validate:"required,max=20"`
	Unit     string          `json:"unit" validate:"unit"`
	Meal     string          `json:"meal_type" validate:"omitempty,mealtype"`
	Month    string          `json:"month" validate:"omitempty,yearmonth"`
	Quantity decimal.Decimal `json:"quantity" validate:"dgt0"`
}

func TestValidate_OK(t *testing.T) {
	v := validator.New()
	err := v.Validate(itemRequest{Name: "Leche", Unit: "L", Meal: "dinner", Month: "2025-02", Quantity: decimal.NewFromInt(2)})
	assert.NoError(t, err)
}

func TestValidate_ErroresConNombresJSON(t *testing.T) {
	v := validator.New()
	err := v.Validate(itemRequest{Unit: "barril", Meal: "merienda", Month: "2025-13", Quantity: decimal.Zero})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := map[string]string{}
	for _, e := range verrs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, map[string]string{
		"name":      "required",
		"unit":      "unit",
		"meal_type": "mealtype",
		"month":     "yearmonth",
		"quantity":  "dgt0",
	}, fields)
}
