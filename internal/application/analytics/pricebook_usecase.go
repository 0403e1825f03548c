package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/repository"
)

// unknownStore nombre usado para precios sin tienda.
const unknownStore = "Sin tienda"

// PriceBookUseCase libro de precios: comparación por tienda y tendencia de un producto.
type PriceBookUseCase struct {
	prices     repository.PriceRecordRepository
	products   repository.ProductRepository
	stores     repository.StoreRepository
	households repository.HouseholdRepository
	pdf        ports.PDFGenerator
}

// NewPriceBookUseCase construye el caso de uso. pdf puede ser nil (exportación deshabilitada).
func NewPriceBookUseCase(
	prices repository.PriceRecordRepository,
	products repository.ProductRepository,
	stores repository.StoreRepository,
	households repository.HouseholdRepository,
	pdf ports.PDFGenerator,
) *PriceBookUseCase {
	return &PriceBookUseCase{
		prices:     prices,
		products:   products,
		stores:     stores,
		households: households,
		pdf:        pdf,
	}
}

// GetPriceBook estadísticas de precio del producto por tienda y globales.
// La mejor tienda es la de menor último precio.
func (uc *PriceBookUseCase) GetPriceBook(ctx context.Context, householdID, productID string) (*dto.PriceBookDTO, error) {
	product, err := uc.products.GetByID(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	records, err := uc.prices.ListByProduct(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}
	stores, err := uc.stores.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(stores))
	for _, s := range stores {
		names[s.ID] = s.Name
	}
	return buildPriceBook(product, records, names), nil
}

// PriceBookPDF exporta el libro de precios del producto.
func (uc *PriceBookUseCase) PriceBookPDF(ctx context.Context, householdID, productID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrExternalService
	}
	book, err := uc.GetPriceBook(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}
	household, err := uc.households.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.PriceBookPDF(ctx, book, household)
}

// priceStats acumulador de observaciones.
type priceStats struct {
	n        int
	sum      decimal.Decimal
	min, max decimal.Decimal
	latest   *entity.PriceRecord
}

func (s *priceStats) add(r *entity.PriceRecord) {
	if s.n == 0 || r.UnitPrice.LessThan(s.min) {
		s.min = r.UnitPrice
	}
	if s.n == 0 || r.UnitPrice.GreaterThan(s.max) {
		s.max = r.UnitPrice
	}
	s.n++
	s.sum = s.sum.Add(r.UnitPrice)
	if s.latest == nil || !r.RecordedAt.Before(s.latest.RecordedAt) {
		s.latest = r
	}
}

func (s *priceStats) avg() decimal.Decimal {
	if s.n == 0 {
		return decimal.Zero
	}
	return s.sum.Div(decimal.NewFromInt(int64(s.n))).Round(2)
}

// buildPriceBook records en orden cronológico (más antiguo primero).
func buildPriceBook(p *entity.Product, records []*entity.PriceRecord, storeNames map[string]string) *dto.PriceBookDTO {
	book := &dto.PriceBookDTO{
		ProductID:   p.ID,
		ProductName: p.Name,
		Stores:      []dto.StorePriceStatDTO{},
	}
	if len(records) == 0 {
		return book
	}

	overall := &priceStats{}
	perStore := map[string]*priceStats{}
	for _, r := range records {
		overall.add(r)
		st, ok := perStore[r.StoreID]
		if !ok {
			st = &priceStats{}
			perStore[r.StoreID] = st
		}
		st.add(r)
	}

	book.Observations = overall.n
	book.MinPrice = overall.min
	book.MaxPrice = overall.max
	book.AveragePrice = overall.avg()
	book.LatestPrice = overall.latest.UnitPrice

	first := records[0].UnitPrice
	if first.IsPositive() {
		book.TrendPercent = book.LatestPrice.Sub(first).Div(first).Mul(hundred).Round(2)
	}

	for storeID, st := range perStore {
		name := storeNames[storeID]
		if storeID == "" {
			name = unknownStore
		}
		book.Stores = append(book.Stores, dto.StorePriceStatDTO{
			StoreID:      storeID,
			StoreName:    name,
			Observations: st.n,
			LatestPrice:  st.latest.UnitPrice,
			LatestAt:     st.latest.RecordedAt,
			MinPrice:     st.min,
			MaxPrice:     st.max,
			AveragePrice: st.avg(),
		})
	}
	sort.SliceStable(book.Stores, func(i, j int) bool {
		a, b := book.Stores[i], book.Stores[j]
		if !a.LatestPrice.Equal(b.LatestPrice) {
			return a.LatestPrice.LessThan(b.LatestPrice)
		}
		return a.StoreName < b.StoreName
	})
	// la mejor tienda debe ser conocida
	for _, s := range book.Stores {
		if s.StoreID != "" {
			book.BestStoreID = s.StoreID
			book.BestStoreName = s.StoreName
			break
		}
	}
	return book
}
