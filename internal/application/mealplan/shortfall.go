package mealplan

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/lists"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

const (
	// SkipUnitMismatch ingrediente cuya unidad no se puede convertir a la del producto.
	SkipUnitMismatch = "unidad incompatible con la del producto"
	// SkipAlreadyPending faltante que la lista ya tiene pendiente.
	SkipAlreadyPending = "ya pendiente en la lista"
)

var thousand = decimal.NewFromInt(1000)

// need cantidad requerida agregada de un ingrediente.
type need struct {
	productID string
	name      string
	unit      string
	qty       decimal.Decimal
}

// ShortfallToShoppingList suma los ingredientes del plan entre from y to, descuenta lo que hay
// en la despensa y agrega lo que falta a la lista (origen "meal_plan"). Los ingredientes sin
// producto se agregan completos por nombre.
func (uc *UseCase) ShortfallToShoppingList(ctx context.Context, householdID string, req dto.ShortfallRequest) (*dto.ShortfallResult, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	meals, err := uc.meals.ListByRange(ctx, householdID, from, to)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, m := range meals {
		for _, in := range m.Ingredients {
			if in.ProductID != "" {
				ids = append(ids, in.ProductID)
			}
		}
	}
	products := map[string]*entity.Product{}
	if len(ids) > 0 {
		list, err := uc.products.ListByIDs(ctx, householdID, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			products[p.ID] = p
		}
	}

	result := &dto.ShortfallResult{ListID: req.ListID, Added: []dto.ShortfallDTO{}}

	// 1. Agregar necesidades: por producto en su unidad, por nombre+unidad en texto libre
	needs := map[string]*need{}
	var order []string
	for _, m := range meals {
		for _, in := range m.Ingredients {
			key, n, ok := needFor(in, products)
			if !ok {
				result.Skipped = append(result.Skipped, dto.SkippedLine{Ref: in.Name, Reason: SkipUnitMismatch})
				log.Warn().
					Str("household_id", householdID).
					Str("meal_id", m.ID).
					Str("ingredient", in.Name).
					Str("unit", in.Unit).
					Msg("ingrediente omitido: unidad incompatible")
				continue
			}
			if cur, exists := needs[key]; exists {
				cur.qty = cur.qty.Add(n.qty)
				continue
			}
			needs[key] = &n
			order = append(order, key)
		}
	}
	if len(needs) == 0 {
		return result, nil
	}

	// 2. Descontar existencias
	now := uc.now()
	stock, err := uc.items.StockByProduct(ctx, householdID, now)
	if err != nil {
		return nil, err
	}
	sort.Strings(order)
	missingLines := make([]dto.ShortfallDTO, 0, len(order))
	items := make([]entity.ShoppingListItem, 0, len(order))
	for _, key := range order {
		n := needs[key]
		onHand := decimal.Zero
		if n.productID != "" {
			onHand = stock[n.productID]
		}
		missing := n.qty.Sub(onHand)
		if !missing.IsPositive() {
			result.Covered++
			continue
		}
		missingLines = append(missingLines, dto.ShortfallDTO{
			ProductID: n.productID,
			Name:      n.name,
			Needed:    n.qty,
			OnHand:    onHand,
			Missing:   missing,
			Unit:      n.unit,
		})
		items = append(items, entity.ShoppingListItem{
			ProductID: n.productID,
			Name:      n.name,
			Quantity:  missing,
			Unit:      n.unit,
			Source:    entity.ItemSourceMealPlan,
		})
	}
	if len(items) == 0 {
		return result, nil
	}
	added, err := lists.AppendItems(ctx, uc.lists, householdID, req.ListID, items, now)
	if err != nil {
		return nil, err
	}

	// 3. Reportar solo lo insertado; el resto ya estaba pendiente
	inserted := make(map[string]bool, len(added))
	for _, it := range added {
		inserted[lists.ItemKey(it)] = true
	}
	for i, line := range missingLines {
		if key := lists.ItemKey(items[i]); inserted[key] {
			delete(inserted, key)
			result.Added = append(result.Added, line)
			continue
		}
		result.Skipped = append(result.Skipped, dto.SkippedLine{Ref: line.Name, Reason: SkipAlreadyPending})
	}
	return result, nil
}

// needFor clave de agregación y cantidad del ingrediente, convertida a la unidad del producto.
func needFor(in entity.MealIngredient, products map[string]*entity.Product) (string, need, bool) {
	p, ok := products[in.ProductID]
	if in.ProductID == "" || !ok {
		unit := in.Unit
		return "n:" + strings.ToLower(in.Name) + "|" + unit, need{name: in.Name, unit: unit, qty: in.Quantity}, true
	}
	qty, ok := convert(in.Quantity, in.Unit, p.DefaultUnit)
	if !ok {
		return "", need{}, false
	}
	return "p:" + p.ID, need{productID: p.ID, name: p.Name, unit: p.DefaultUnit, qty: qty}, true
}

// convert convierte entre g/kg y ml/l; misma unidad o unidad vacía pasan sin cambio.
func convert(qty decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	from, to = strings.ToLower(from), strings.ToLower(to)
	if from == to || from == "" {
		return qty, true
	}
	switch {
	case from == "g" && to == "kg", from == "ml" && to == "l":
		return qty.Div(thousand), true
	case from == "kg" && to == "g", from == "l" && to == "ml":
		return qty.Mul(thousand), true
	}
	return decimal.Zero, false
}

