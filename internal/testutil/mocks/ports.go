// Package mocks contiene dobles de los puertos externos basados en testify/mock.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

var (
	_ ports.BarcodeLookup = (*MockBarcodeLookup)(nil)
	_ ports.RecipeClipper = (*MockRecipeClipper)(nil)
	_ ports.ReceiptParser = (*MockReceiptParser)(nil)
	_ ports.PDFGenerator  = (*MockPDFGenerator)(nil)
	_ ports.RecipeAdvisor = (*MockRecipeAdvisor)(nil)
)

type MockBarcodeLookup struct{ mock.Mock }

func (m *MockBarcodeLookup) Lookup(ctx context.Context, barcode string) (*dto.BarcodeProductDTO, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BarcodeProductDTO), args.Error(1)
}

type MockRecipeClipper struct{ mock.Mock }

func (m *MockRecipeClipper) Clip(ctx context.Context, url string) (*dto.ClippedRecipe, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ClippedRecipe), args.Error(1)
}

type MockReceiptParser struct{ mock.Mock }

func (m *MockReceiptParser) Parse(data []byte) (*dto.ParsedReceipt, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ParsedReceipt), args.Error(1)
}

type MockPDFGenerator struct{ mock.Mock }

func (m *MockPDFGenerator) ShoppingListPDF(ctx context.Context, list *entity.ShoppingList, household *entity.Household) ([]byte, error) {
	args := m.Called(ctx, list, household)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPDFGenerator) PriceBookPDF(ctx context.Context, book *dto.PriceBookDTO, household *entity.Household) ([]byte, error) {
	args := m.Called(ctx, book, household)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockRecipeAdvisor struct{ mock.Mock }

func (m *MockRecipeAdvisor) SuggestRecipes(ctx context.Context, prompt dto.RecipePrompt) ([]dto.RecipeSuggestionDTO, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RecipeSuggestionDTO), args.Error(1)
}
