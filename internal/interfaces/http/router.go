package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orcamentos-api/internal/application/billing"
	"github.com/jhoicas/Orcamentos-api/internal/application/catalog"
	"github.com/jhoicas/Orcamentos-api/internal/application/quote"
)

// Roles aceptados en el token.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	QuoteUC    *quote.UseCase
	CatalogUC  *catalog.UseCase
	CustomerUC *billing.CustomerUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo vive bajo /api y requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(RoleAdmin, RoleVendedor))

	// Catálogo (solo lectura)
	cat := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	cat.Get("/products", catalogHandler.Products)
	cat.Get("/services", catalogHandler.Services)
	cat.Get("/services/:id/composition", catalogHandler.Composition)

	// Clientes
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	// Borradores de orçamento
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/:id", quoteHandler.Get)
	quotes.Patch("/:id", quoteHandler.Update)
	quotes.Delete("/:id", quoteHandler.Discard)
	quotes.Post("/:id/products", quoteHandler.AddProduct)
	quotes.Post("/:id/services", quoteHandler.AddService)
	quotes.Put("/:id/lines/:index/quantity", quoteHandler.SetQuantity)
	quotes.Delete("/:id/lines/:index", quoteHandler.RemoveLine)
	quotes.Post("/:id/commit", quoteHandler.Commit)
	quotes.Get("/:id/export", quoteHandler.Export)

	// Ventas guardadas
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.QuoteUC)
	sales.Get("/", saleHandler.List)
	sales.Post("/:id/edit", saleHandler.Edit)
	sales.Delete("/:id", saleHandler.Delete)
}
