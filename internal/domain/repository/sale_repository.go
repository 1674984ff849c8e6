package repository

import (
	"context"

	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas y sus ítems.
// Las implementaciones ligadas a una transacción se obtienen vía TxRunner.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	UpdateHeader(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	DeleteItems(ctx context.Context, saleID string) error
	InsertItems(ctx context.Context, items []*entity.SaleItem) error
	Delete(ctx context.Context, companyID, id string) error
}

// FinancialRepository puerto de los lanzamientos financieros ligados a ventas.
type FinancialRepository interface {
	DeleteBySale(ctx context.Context, saleID string) error
}
