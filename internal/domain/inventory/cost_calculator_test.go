package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/despensa-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name                       string
		onHand, cost, inQty, inCst string
		want                       string
	}{
		{"sin existencias toma el costo de entrada", "0", "0", "4", "2500", "2500"},
		{"promedia existencias y entrada", "2", "3000", "2", "2000", "2500"},
		{"entrada sin costo conserva el promedio", "2", "3000", "5", "0", "3000"},
		{"existencias negativas se tratan como cero", "-1", "1000", "1", "1800", "1800"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(dec(tt.onHand), dec(tt.cost), dec(tt.inQty), dec(tt.inCst))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestLineCost(t *testing.T) {
	assert.True(t, inventory.LineCost(dec("-1.5"), dec("1999")).Equal(dec("2998.5")))
}
