package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/despensa-api/internal/application/analytics"
	"github.com/jhoicas/despensa-api/internal/application/auth"
	"github.com/jhoicas/despensa-api/internal/application/insights"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
	"github.com/jhoicas/despensa-api/internal/application/mealplan"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/application/purchase"
	"github.com/jhoicas/despensa-api/internal/application/shopping"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
	"github.com/jhoicas/despensa-api/internal/domain/pattern"
	infraai "github.com/jhoicas/despensa-api/internal/infrastructure/ai"
	infrabarcode "github.com/jhoicas/despensa-api/internal/infrastructure/barcode"
	infrapdf "github.com/jhoicas/despensa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/despensa-api/internal/infrastructure/postgres"
	infrarecipe "github.com/jhoicas/despensa-api/internal/infrastructure/recipe"
	infraubl "github.com/jhoicas/despensa-api/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/despensa-api/internal/interfaces/http"
	"github.com/jhoicas/despensa-api/pkg/config"
	"github.com/jhoicas/despensa-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	householdRepo := postgres.NewHouseholdRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	nutritionRepo := postgres.NewNutritionRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	priceRepo := postgres.NewPriceRecordRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	listRepo := postgres.NewShoppingListRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	wasteRepo := postgres.NewWasteRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	mealRepo := postgres.NewMealPlanRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Códigos de barras: Open Food Facts con caché SQLite opcional
	var barcodeLookup ports.BarcodeLookup = infrabarcode.NewOpenFoodFacts(
		cfg.Barcode.BaseURL, time.Duration(cfg.Barcode.TimeoutSeconds)*time.Second,
	)
	if cfg.Barcode.CachePath != "" {
		cacheDB, err := infrabarcode.OpenCache(cfg.Barcode.CachePath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Barcode.CachePath).Msg("caché de códigos de barras deshabilitada")
		} else {
			defer cacheDB.Close()
			barcodeLookup = infrabarcode.NewCachedLookup(
				barcodeLookup, cacheDB, time.Duration(cfg.Barcode.CacheTTLHours)*time.Hour, log.Component("barcode"),
			)
		}
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	householdUC := usecase.NewHouseholdUseCase(householdRepo, userRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	storeUC := usecase.NewStoreUseCase(storeRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	productUC := usecase.NewProductUseCase(productRepo, nutritionRepo, barcodeLookup)
	nutritionUC := usecase.NewNutritionUseCase(nutritionRepo, productRepo, mealRepo)

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner)
	itemUC := inventory.NewItemUseCase(itemRepo, movementRepo, productRepo)
	expirationUC := inventory.NewExpirationUseCase(itemRepo, productRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, itemRepo, priceRepo, listRepo)
	auditUC := inventory.NewAuditUseCase(auditRepo, itemRepo, locationRepo, txRunner)
	wasteUC := inventory.NewWasteUseCase(wasteRepo, productRepo, priceRepo, txRunner)

	shoppingUC := shopping.NewUseCase(listRepo, productRepo, priceRepo, storeRepo, householdRepo, pdfGenerator, txRunner)
	purchaseUC := purchase.NewUseCase(purchaseRepo, receiptRepo, infraubl.NewParser(), txRunner)

	params := pattern.DefaultParams()
	if cfg.Insights.RecurringThresholdDays > 0 {
		params.RecurringThresholdDays = float64(cfg.Insights.RecurringThresholdDays)
	}
	if cfg.Insights.SessionGapMinutes > 0 {
		params.SessionGap = time.Duration(cfg.Insights.SessionGapMinutes) * time.Minute
	}
	if cfg.Insights.MinCoOccurrence > 0 {
		params.MinCoOccurrence = cfg.Insights.MinCoOccurrence
	}
	if cfg.Insights.SeasonalFactor > 0 {
		params.SeasonalFactor = cfg.Insights.SeasonalFactor
	}
	if cfg.Insights.MinSeasonalSpanDays > 0 {
		params.MinSeasonalSpanDays = float64(cfg.Insights.MinSeasonalSpanDays)
	}
	if cfg.Insights.PredictionConfidence > 0 {
		params.PredictionConfidence = cfg.Insights.PredictionConfidence
	}
	insightsUC := insights.NewUseCase(purchaseRepo, productRepo, itemRepo, priceRepo, listRepo, insights.Settings{
		LookbackDays: cfg.Insights.LookbackDays,
		HorizonDays:  cfg.Insights.HorizonDays,
		Limit:        cfg.Insights.SuggestionLimit,
		Params:       params,
	})

	aiTimeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	mealPlanUC := mealplan.NewUseCase(
		mealRepo, productRepo, itemRepo, listRepo,
		infrarecipe.NewClipper(aiTimeout), infraai.NewRecipeAdvisor(cfg.AI),
	).WithAdvisorTimeout(aiTimeout)

	reportUC := appanalytics.NewReportUseCase(analyticsRepo)
	budgetUC := appanalytics.NewBudgetUseCase(budgetRepo, analyticsRepo)
	priceBookUC := appanalytics.NewPriceBookUseCase(priceRepo, productRepo, storeRepo, householdRepo, pdfGenerator)
	dashboardUC := appanalytics.NewDashboardUseCase(itemUC, expirationUC, replenishmentUC, analyticsRepo, budgetRepo, wasteRepo)

	authUC := auth.NewAuthUseCase(userRepo, householdRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    4 << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.AccessLog(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Despensa API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		HouseholdUC:      householdUC,
		UserUC:           userUC,
		StoreUC:          storeUC,
		LocationUC:       locationUC,
		ProductUC:        productUC,
		NutritionUC:      nutritionUC,
		RegisterMovement: registerMovementUC,
		Items:            itemUC,
		Expiration:       expirationUC,
		Replenishment:    replenishmentUC,
		Audits:           auditUC,
		Waste:            wasteUC,
		Shopping:         shoppingUC,
		Purchases:        purchaseUC,
		Insights:         insightsUC,
		MealPlans:        mealPlanUC,
		Reports:          reportUC,
		Budgets:          budgetUC,
		PriceBook:        priceBookUC,
		DashboardUC:      dashboardUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
