package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

const defaultUnit = "unit"

// ProductUseCase casos de uso CRUD para productos del catálogo del hogar.
// El costo promedio se maneja vía movimientos de inventario.
type ProductUseCase struct {
	repo      repository.ProductRepository
	nutrition repository.NutritionRepository
	barcode   ports.BarcodeLookup
}

// NewProductUseCase construye el caso de uso. barcode puede ser nil (consulta externa deshabilitada).
func NewProductUseCase(repo repository.ProductRepository, nutrition repository.NutritionRepository, barcode ports.BarcodeLookup) *ProductUseCase {
	return &ProductUseCase{repo: repo, nutrition: nutrition, barcode: barcode}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el código de barras ya existe en el hogar.
func (uc *ProductUseCase) Create(ctx context.Context, householdID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateRule(in.IsStaple, in.MinQuantity, in.RestockQuantity); err != nil {
		return nil, err
	}
	in.Barcode = strings.TrimSpace(in.Barcode)
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(ctx, householdID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		HouseholdID:     householdID,
		Barcode:         in.Barcode,
		Name:            strings.TrimSpace(in.Name),
		Brand:           in.Brand,
		Category:        in.Category,
		DefaultUnit:     normalizeUnit(in.DefaultUnit),
		IsStaple:        in.IsStaple,
		MinQuantity:     in.MinQuantity,
		RestockQuantity: in.RestockQuantity,
		ShelfLifeDays:   in.ShelfLifeDays,
		AverageCost:     decimal.Zero,
		ImageURL:        in.ImageURL,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if product.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, householdID, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar AverageCost (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, householdID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if in.Barcode != nil {
		code := strings.TrimSpace(*in.Barcode)
		if code != "" && code != product.Barcode {
			existing, err := uc.repo.GetByBarcode(ctx, householdID, code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicate
			}
		}
		product.Barcode = code
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.DefaultUnit != nil {
		product.DefaultUnit = normalizeUnit(*in.DefaultUnit)
	}
	if in.IsStaple != nil {
		product.IsStaple = *in.IsStaple
	}
	if in.MinQuantity != nil {
		product.MinQuantity = *in.MinQuantity
	}
	if in.RestockQuantity != nil {
		product.RestockQuantity = *in.RestockQuantity
	}
	if in.ShelfLifeDays != nil {
		// 0 quita el override y vuelve a la tabla de patrones
		if *in.ShelfLifeDays == 0 {
			product.ShelfLifeDays = nil
		} else {
			days := *in.ShelfLifeDays
			product.ShelfLifeDays = &days
		}
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Notes != nil {
		product.Notes = *in.Notes
	}
	if product.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateRule(product.IsStaple, product.MinQuantity, product.RestockQuantity); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del hogar con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, householdID string, f dto.ProductFilter) (*dto.ProductListResponse, error) {
	f.DefaultPage()
	list, err := uc.repo.List(ctx, householdID, repository.ProductFilter{
		Search:      strings.TrimSpace(f.Search),
		Category:    f.Category,
		StaplesOnly: f.StaplesOnly,
		Limit:       f.Limit,
		Offset:      f.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, householdID, id string) error {
	if _, err := uc.get(ctx, householdID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, householdID, id)
}

// LookupBarcode busca primero en el catálogo del hogar y luego en el catálogo externo.
// El resultado externo no se persiste.
func (uc *ProductUseCase) LookupBarcode(ctx context.Context, householdID, code string) (*dto.BarcodeLookupResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	local, err := uc.repo.GetByBarcode(ctx, householdID, code)
	if err != nil {
		return nil, err
	}
	if local != nil {
		return &dto.BarcodeLookupResponse{Local: true, Product: toProductResponse(local)}, nil
	}
	external, err := uc.external(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.BarcodeLookupResponse{External: external}, nil
}

// CreateFromBarcode crea el producto con los datos del catálogo externo y guarda su información nutricional.
func (uc *ProductUseCase) CreateFromBarcode(ctx context.Context, householdID string, in dto.CreateFromBarcodeRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Barcode)
	external, err := uc.external(ctx, code)
	if err != nil {
		return nil, err
	}
	product, err := uc.Create(ctx, householdID, dto.CreateProductRequest{
		Barcode:     code,
		Name:        external.Name,
		Brand:       external.Brand,
		Category:    external.Category,
		DefaultUnit: in.DefaultUnit,
		IsStaple:    in.IsStaple,
		MinQuantity: in.MinQuantity,
		ImageURL:    external.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	if external.Nutrition != nil {
		n := external.Nutrition
		err := uc.nutrition.Upsert(ctx, &entity.NutritionEntry{
			ProductID:        product.ID,
			HouseholdID:      householdID,
			Calories:         n.Calories,
			Protein:          n.Protein,
			Carbohydrates:    n.Carbohydrates,
			Fat:              n.Fat,
			Fiber:            n.Fiber,
			Sugar:            n.Sugar,
			Sodium:           n.Sodium,
			ServingSizeGrams: n.ServingSizeGrams,
			Source:           "barcode",
			UpdatedAt:        time.Now(),
		})
		if err != nil {
			return nil, err
		}
	}
	return product, nil
}

func (uc *ProductUseCase) external(ctx context.Context, code string) (*dto.BarcodeProductDTO, error) {
	if uc.barcode == nil {
		return nil, domain.ErrExternalService
	}
	external, err := uc.barcode.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if external == nil || strings.TrimSpace(external.Name) == "" {
		return nil, domain.ErrNotFound
	}
	return external, nil
}

func (uc *ProductUseCase) get(ctx context.Context, householdID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, householdID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// validateRule: un básico necesita mínimo > 0 y el objetivo, si se indica, no puede quedar bajo el mínimo.
func validateRule(isStaple bool, min, restock decimal.Decimal) error {
	if min.IsNegative() || restock.IsNegative() {
		return domain.ErrInvalidInput
	}
	if !isStaple {
		return nil
	}
	if !min.IsPositive() {
		return domain.ErrInvalidInput
	}
	if restock.IsPositive() && restock.LessThan(min) {
		return domain.ErrInvalidInput
	}
	return nil
}

func normalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	if u == "" {
		return defaultUnit
	}
	return u
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Barcode:         p.Barcode,
		Name:            p.Name,
		Brand:           p.Brand,
		Category:        p.Category,
		DefaultUnit:     p.DefaultUnit,
		IsStaple:        p.IsStaple,
		MinQuantity:     p.MinQuantity,
		RestockQuantity: p.RestockQuantity,
		ShelfLifeDays:   p.ShelfLifeDays,
		AverageCost:     p.AverageCost,
		ImageURL:        p.ImageURL,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
