package repository

import (
	"context"

	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
)

// CatalogRepository define el puerto de lectura del catálogo (productos, servicios y
// composición). El motor de orçamentos nunca escribe en el catálogo.
type CatalogRepository interface {
	ListProducts(ctx context.Context, companyID string) ([]*entity.Product, error)
	ListServices(ctx context.Context, companyID string) ([]*entity.Service, error)
	GetProduct(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetService(ctx context.Context, companyID, id string) (*entity.Service, error)
	GetComposition(ctx context.Context, serviceID string) ([]*entity.CompositionEntry, error)
}
