package ports

import (
	"context"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// BarcodeLookup consulta un catálogo externo de productos por código de barras.
// Devuelve (nil, nil) cuando el código no existe; errores de red/servidor envuelven domain.ErrExternalService.
type BarcodeLookup interface {
	Lookup(ctx context.Context, barcode string) (*dto.BarcodeProductDTO, error)
}

// RecipeClipper extrae título e ingredientes de una página web de recetas.
type RecipeClipper interface {
	Clip(ctx context.Context, url string) (*dto.ClippedRecipe, error)
}

// ReceiptParser convierte un documento electrónico (factura UBL 2.1) en un recibo sin asociar.
type ReceiptParser interface {
	Parse(data []byte) (*dto.ParsedReceipt, error)
}

// PDFGenerator genera documentos imprimibles.
type PDFGenerator interface {
	ShoppingListPDF(ctx context.Context, list *entity.ShoppingList, household *entity.Household) ([]byte, error)
	PriceBookPDF(ctx context.Context, book *dto.PriceBookDTO, household *entity.Household) ([]byte, error)
}
