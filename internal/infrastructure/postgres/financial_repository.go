package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
)

var _ repository.FinancialRepository = (*FinancialRepo)(nil)

// FinancialRepo lanzamientos financieros ligados a ventas.
type FinancialRepo struct {
	q Querier
}

// NewFinancialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinancialRepository(q Querier) *FinancialRepo {
	return &FinancialRepo{q: q}
}

// DeleteBySale elimina los lanzamientos de la venta.
func (r *FinancialRepo) DeleteBySale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM financial_entries WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete financial entries: %w", err)
	}
	return nil
}
