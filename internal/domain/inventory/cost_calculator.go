package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo unitario promedio de un producto al ingresar un lote.
// NuevoCosto = ((Existencias * CostoActual) + (CantEntrada * CostoEntrada)) / (Existencias + CantEntrada)
// Un lote sin costo (regalo, producción casera) no altera el promedio.
func WeightedAverageCost(onHand, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	if inCost.LessThanOrEqual(decimal.Zero) {
		return currentCost
	}
	if onHand.LessThan(decimal.Zero) {
		onHand = decimal.Zero
	}
	sum := onHand.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := onHand.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum).Round(4)
}

// LineCost valor de una cantidad a costo unitario, redondeado a centavos.
func LineCost(qty, unitCost decimal.Decimal) decimal.Decimal {
	return qty.Abs().Mul(unitCost).Round(2)
}
