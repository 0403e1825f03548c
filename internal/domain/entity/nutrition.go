package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NutritionEntry valores nutricionales por 100 g (o 100 ml) de un producto.
type NutritionEntry struct {
	ProductID        string
	HouseholdID      string
	Calories         decimal.Decimal // kcal
	Protein          decimal.Decimal // g
	Carbohydrates    decimal.Decimal // g
	Fat              decimal.Decimal // g
	Fiber            decimal.Decimal // g
	Sugar            decimal.Decimal // g
	Sodium           decimal.Decimal // mg
	ServingSizeGrams decimal.Decimal // porción de referencia para ingredientes sin unidad de masa
	Source           string          // manual, barcode
	UpdatedAt        time.Time
}
