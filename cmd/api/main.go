package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Orcamentos-api/internal/application/billing"
	"github.com/jhoicas/Orcamentos-api/internal/application/catalog"
	"github.com/jhoicas/Orcamentos-api/internal/application/quote"
	infracsv "github.com/jhoicas/Orcamentos-api/internal/infrastructure/csv"
	infrapdf "github.com/jhoicas/Orcamentos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Orcamentos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Orcamentos-api/internal/interfaces/http"
	"github.com/jhoicas/Orcamentos-api/pkg/config"
	"github.com/jhoicas/Orcamentos-api/pkg/logger"
	"github.com/jhoicas/Orcamentos-api/pkg/money"
)

// Frecuencia del barrido de borradores inactivos.
const janitorInterval = time.Minute

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
		Str("tax_rate", cfg.Quote.TaxRate.String()).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Borradores en memoria; el janitor descarta los inactivos pasado el TTL.
	store := quote.NewDraftStore(cfg.Quote.DraftTTL(), log)
	go store.Run(ctx, janitorInterval)

	renderers := map[string]quote.Renderer{
		"pdf": infrapdf.NewMarotoQuoteRenderer(money.New(cfg.Quote.Locale)),
		"csv": infracsv.NewExporter(),
	}
	quoteUC := quote.NewUseCase(catalogRepo, saleRepo, customerRepo, txRunner, store, renderers,
		quote.Settings{TaxRate: cfg.Quote.TaxRate, Locale: cfg.Quote.Locale}, log)
	catalogUC := catalog.NewUseCase(catalogRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "drafts": store.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		QuoteUC:    quoteUC,
		CatalogUC:  catalogUC,
		CustomerUC: customerUC,
		JWTSecret:  cfg.JWT.Secret,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
