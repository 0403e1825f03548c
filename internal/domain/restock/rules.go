// Package restock evalúa las reglas de stock mínimo de los productos básicos (staples).
package restock

import "github.com/shopspring/decimal"

// idealFactor stock ideal = mínimo * 1.5 cuando el producto no define cantidad de reposición.
var idealFactor = decimal.NewFromFloat(1.5)

// Rule regla de reposición de un producto básico.
type Rule struct {
	MinQuantity     decimal.Decimal
	RestockQuantity decimal.Decimal // stock objetivo; cero = MinQuantity * 1.5
}

// Evaluation resultado de evaluar una regla contra las existencias.
type Evaluation struct {
	Needed       bool
	Target       decimal.Decimal
	Deficit      decimal.Decimal // MinQuantity - onHand (>= 0)
	SuggestedQty decimal.Decimal // Target - onHand (>= 0)
}

// Target stock objetivo tras reponer.
func (r Rule) Target() decimal.Decimal {
	if r.RestockQuantity.GreaterThan(decimal.Zero) {
		return r.RestockQuantity
	}
	return r.MinQuantity.Mul(idealFactor)
}

// Evaluate indica si hay que reponer (existencias estrictamente bajo el mínimo) y cuánto.
func Evaluate(r Rule, onHand decimal.Decimal) Evaluation {
	target := r.Target()
	ev := Evaluation{Target: target, Deficit: decimal.Zero, SuggestedQty: decimal.Zero}
	if r.MinQuantity.LessThanOrEqual(decimal.Zero) || !onHand.LessThan(r.MinQuantity) {
		return ev
	}
	ev.Needed = true
	ev.Deficit = r.MinQuantity.Sub(onHand)
	if s := target.Sub(onHand); s.GreaterThan(decimal.Zero) {
		ev.SuggestedQty = s
	}
	return ev
}

// RelativeDeficit déficit como fracción del mínimo (0..1+). Cero si no hay mínimo.
func (e Evaluation) RelativeDeficit(min decimal.Decimal) decimal.Decimal {
	if min.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return e.Deficit.Div(min)
}
