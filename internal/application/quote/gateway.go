package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orcamentos-api/internal/domain"
	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
)

var _ engine.Gateway = (*SaleGateway)(nil)

// SaleGateway persiste un borrador como venta: cabecera e ítems en una sola transacción.
// Si la venta ya existe, se actualiza la cabecera y se reemplazan todos sus ítems.
type SaleGateway struct {
	tx    SaleTxRunner
	newID func() string
	now   func() time.Time
}

// NewSaleGateway construye el gateway.
func NewSaleGateway(tx SaleTxRunner) *SaleGateway {
	return &SaleGateway{tx: tx, newID: uuid.NewString, now: time.Now}
}

// Commit implementa engine.Gateway.
func (g *SaleGateway) Commit(ctx context.Context, snap engine.Snapshot) (string, error) {
	now := g.now()
	sale := &entity.Sale{
		ID:        snap.SaleID,
		CompanyID: snap.CompanyID,
		WorkName:  snap.WorkName,
		Total:     snap.Totals.GrandTotal,
		UpdatedAt: now,
	}
	if snap.Customer != nil {
		sale.CustomerID = snap.Customer.ID
	}
	if snap.Finalized {
		sale.FinalizedAt = snap.FinalizedAt
	}

	err := g.tx.RunSale(ctx, func(sales repository.SaleRepository, _ repository.FinancialRepository) error {
		if sale.ID == "" {
			sale.ID = g.newID()
			sale.SaleDate = now
			sale.CreatedAt = now
			if err := sales.Create(ctx, sale); err != nil {
				return err
			}
		} else {
			if err := sales.UpdateHeader(ctx, sale); err != nil {
				return err
			}
			if err := sales.DeleteItems(ctx, sale.ID); err != nil {
				return err
			}
		}
		return sales.InsertItems(ctx, g.saleItems(sale, snap.Lines))
	})
	if err != nil {
		return "", fmt.Errorf("%w: guardar venta: %w", domain.ErrPersistence, err)
	}
	return sale.ID, nil
}

func (g *SaleGateway) saleItems(sale *entity.Sale, lines []engine.LineItem) []*entity.SaleItem {
	items := make([]*entity.SaleItem, 0, len(lines))
	for i, l := range lines {
		it := &entity.SaleItem{
			ID:              g.newID(),
			SaleID:          sale.ID,
			CompanyID:       sale.CompanyID,
			Kind:            string(l.Kind),
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			ParentServiceID: l.ParentServiceID,
			Position:        i,
		}
		if l.Kind == engine.KindService {
			it.ServiceID = l.ID
		} else {
			it.ProductID = l.ID
		}
		if l.BaseQuantityPerParent != nil {
			it.BaseQuantityPerParent = decimal.NewNullDecimal(*l.BaseQuantityPerParent)
		}
		items = append(items, it)
	}
	return items
}
