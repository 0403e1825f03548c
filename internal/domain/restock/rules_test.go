package restock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/despensa-api/internal/domain/restock"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestEvaluate_BajoMinimoSinObjetivoUsaFactor(t *testing.T) {
	ev := restock.Evaluate(restock.Rule{MinQuantity: d(4)}, d(1))
	assert.True(t, ev.Needed)
	assert.True(t, ev.Target.Equal(d(6)))
	assert.True(t, ev.Deficit.Equal(d(3)))
	assert.True(t, ev.SuggestedQty.Equal(d(5)))
	assert.True(t, ev.RelativeDeficit(d(4)).Equal(d(0.75)))
}

func TestEvaluate_ConObjetivoExplicito(t *testing.T) {
	ev := restock.Evaluate(restock.Rule{MinQuantity: d(2), RestockQuantity: d(10)}, d(0))
	assert.True(t, ev.Needed)
	assert.True(t, ev.SuggestedQty.Equal(d(10)))
}

func TestEvaluate_EnElMinimoNoRepone(t *testing.T) {
	ev := restock.Evaluate(restock.Rule{MinQuantity: d(2)}, d(2))
	assert.False(t, ev.Needed)
	assert.True(t, ev.SuggestedQty.IsZero())
}

func TestEvaluate_SinMinimoNuncaRepone(t *testing.T) {
	ev := restock.Evaluate(restock.Rule{}, d(0))
	assert.False(t, ev.Needed)
}
