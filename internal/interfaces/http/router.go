package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/despensa-api/internal/application/analytics"
	"github.com/jhoicas/despensa-api/internal/application/auth"
	"github.com/jhoicas/despensa-api/internal/application/insights"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
	"github.com/jhoicas/despensa-api/internal/application/mealplan"
	"github.com/jhoicas/despensa-api/internal/application/purchase"
	"github.com/jhoicas/despensa-api/internal/application/shopping"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	HouseholdUC      *usecase.HouseholdUseCase
	UserUC           *usecase.UserUseCase
	StoreUC          *usecase.StoreUseCase
	LocationUC       *usecase.LocationUseCase
	ProductUC        *usecase.ProductUseCase
	NutritionUC      *usecase.NutritionUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Items            *inventory.ItemUseCase
	Expiration       *inventory.ExpirationUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Audits           *inventory.AuditUseCase
	Waste            *inventory.WasteUseCase
	Shopping         *shopping.UseCase
	Purchases        *purchase.UseCase
	Insights         *insights.UseCase
	MealPlans        *mealplan.UseCase
	Reports          *appanalytics.ReportUseCase
	Budgets          *appanalytics.BudgetUseCase
	PriceBook        *appanalytics.PriceBookUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	ownerOnly := RequireRole(entity.RoleOwner)

	householdHandler := NewHouseholdHandler(deps.HouseholdUC, deps.UserUC, deps.StoreUC, deps.LocationUC)
	protected.Get("/me", householdHandler.Me)

	household := protected.Group("/household")
	household.Get("/", householdHandler.Get)
	household.Put("/", ownerOnly, householdHandler.Update)
	household.Get("/members", householdHandler.Members)
	household.Post("/members", ownerOnly, authHandler.RegisterMember)

	stores := protected.Group("/stores")
	stores.Post("/", householdHandler.CreateStore)
	stores.Get("/", householdHandler.ListStores)
	stores.Get("/:id", householdHandler.GetStore)
	stores.Put("/:id", householdHandler.UpdateStore)
	stores.Delete("/:id", householdHandler.DeleteStore)

	locations := protected.Group("/locations")
	locations.Post("/", householdHandler.CreateLocation)
	locations.Get("/", householdHandler.ListLocations)
	locations.Get("/:id", householdHandler.GetLocation)
	locations.Put("/:id", householdHandler.UpdateLocation)
	locations.Delete("/:id", ownerOnly, householdHandler.DeleteLocation)

	// Productos; las rutas fijas van antes de /:id
	productHandler := NewProductHandler(deps.ProductUC, deps.NutritionUC)
	analyticsHandler := NewAnalyticsHandler(deps.Reports, deps.Budgets, deps.PriceBook)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Post("/barcode", productHandler.CreateFromBarcode)
	products.Get("/barcode/:code", productHandler.LookupBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", ownerOnly, productHandler.Delete)
	products.Get("/:id/nutrition", productHandler.GetNutrition)
	products.Put("/:id/nutrition", productHandler.UpsertNutrition)
	products.Get("/:id/prices", analyticsHandler.PriceBook)
	products.Get("/:id/prices/pdf", analyticsHandler.PriceBookPDF)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Items, deps.Expiration, deps.Replenishment)
	inv := protected.Group("/inventory")
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/items", inventoryHandler.ListItems)
	inv.Get("/items/:id", inventoryHandler.GetItem)
	inv.Post("/items/:id/open", inventoryHandler.OpenItem)
	inv.Get("/items/:id/movements", inventoryHandler.ItemMovements)
	inv.Get("/expiring", inventoryHandler.Expiring)
	inv.Get("/expired", inventoryHandler.Expired)
	inv.Get("/restock", inventoryHandler.GetRestockList)
	inv.Post("/restock/to-list", inventoryHandler.RestockToList)

	auditHandler := NewAuditHandler(deps.Audits, deps.Waste)
	audits := protected.Group("/audits")
	audits.Post("/", auditHandler.Start)
	audits.Get("/", auditHandler.List)
	audits.Get("/:id", auditHandler.Get)
	audits.Put("/:id/items/:item_id", auditHandler.RecordCount)
	audits.Post("/:id/complete", auditHandler.Complete)
	audits.Post("/:id/cancel", auditHandler.Cancel)

	waste := protected.Group("/waste")
	waste.Post("/", auditHandler.LogWaste)
	waste.Get("/summary", auditHandler.WasteSummary)

	// Listas de compras
	shoppingHandler := NewShoppingHandler(deps.Shopping)
	lists := protected.Group("/shopping-lists")
	lists.Post("/", shoppingHandler.Create)
	lists.Get("/", shoppingHandler.List)
	lists.Get("/:id", shoppingHandler.Get)
	lists.Put("/:id", shoppingHandler.Update)
	lists.Delete("/:id", shoppingHandler.Delete)
	lists.Post("/:id/archive", shoppingHandler.Archive)
	lists.Post("/:id/complete", shoppingHandler.Complete)
	lists.Get("/:id/pdf", shoppingHandler.ExportPDF)
	lists.Post("/:id/items", shoppingHandler.AddItem)
	lists.Put("/:id/items/:item_id", shoppingHandler.UpdateItem)
	lists.Post("/:id/items/:item_id/toggle", shoppingHandler.ToggleItem)
	lists.Delete("/:id/items/:item_id", shoppingHandler.RemoveItem)

	// Compras, recibos y precios
	purchaseHandler := NewPurchaseHandler(deps.Purchases)
	purchases := protected.Group("/purchases")
	purchases.Post("/", purchaseHandler.Record)
	purchases.Get("/", purchaseHandler.List)
	protected.Post("/prices", purchaseHandler.RecordPrice)

	receipts := protected.Group("/receipts")
	receipts.Post("/", purchaseHandler.CreateReceipt)
	receipts.Get("/", purchaseHandler.ListReceipts)
	receipts.Post("/ubl", purchaseHandler.ImportUBL)
	receipts.Get("/:id", purchaseHandler.GetReceipt)

	// Sugerencias
	insightsHandler := NewInsightsHandler(deps.Insights)
	ins := protected.Group("/insights")
	ins.Get("/suggestions", insightsHandler.Suggestions)
	ins.Post("/suggestions/to-list", insightsHandler.AddToList)
	ins.Get("/patterns", insightsHandler.Patterns)
	ins.Get("/companions/:id", insightsHandler.Companions)
	ins.Get("/seasonal", insightsHandler.Seasonal)
	ins.Get("/predictions", insightsHandler.Predictions)

	// Plan de comidas y recetas
	mealHandler := NewMealPlanHandler(deps.MealPlans, deps.NutritionUC)
	meals := protected.Group("/meal-plans")
	meals.Post("/", mealHandler.Create)
	meals.Get("/", mealHandler.List)
	meals.Post("/shortfall", mealHandler.Shortfall)
	meals.Get("/nutrition", mealHandler.Nutrition)
	meals.Get("/:id", mealHandler.Get)
	meals.Put("/:id", mealHandler.Update)
	meals.Delete("/:id", mealHandler.Delete)

	recipeHandler := NewRecipeHandler(deps.MealPlans)
	recipes := protected.Group("/recipes")
	recipes.Post("/clip", recipeHandler.Clip)
	recipes.Post("/suggestions", recipeHandler.Suggest)

	// Analítica
	analytics := protected.Group("/analytics")
	analytics.Get("/spend", analyticsHandler.SpendReport)

	budgets := protected.Group("/budgets")
	budgets.Put("/", ownerOnly, analyticsHandler.SetBudget)
	budgets.Get("/", analyticsHandler.ListBudgets)
	budgets.Get("/status", analyticsHandler.BudgetStatus)
	budgets.Delete("/:id", ownerOnly, analyticsHandler.DeleteBudget)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
