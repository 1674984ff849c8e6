package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Orcamentos-api/internal/domain"
	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas (cabecera) e ítems. Usable con pool o tx.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleSelect = `
	SELECT s.id, s.company_id, s.customer_id, COALESCE(c.name, ''), s.work_name, s.total,
	       s.sale_date, s.finalized_at, s.created_at, s.updated_at
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID *string
	err := row.Scan(&s.ID, &s.CompanyID, &customerID, &s.CustomerName, &s.WorkName, &s.Total,
		&s.SaleDate, &s.FinalizedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.CustomerID = stringOrEmpty(customerID)
	return &s, nil
}

// Create inserta la cabecera de una venta nueva.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, customer_id, work_name, total, sale_date, finalized_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.CompanyID, nullIfEmpty(sale.CustomerID), sale.WorkName, sale.Total,
		sale.SaleDate, sale.FinalizedAt, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// UpdateHeader actualiza nombre de obra, cliente, total y fecha de finalización.
// Devuelve domain.ErrNotFound si la venta no existe en la empresa.
func (r *SaleRepo) UpdateHeader(ctx context.Context, sale *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $3, work_name = $4, total = $5, finalized_at = $6, updated_at = $7
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		sale.CompanyID, sale.ID, nullIfEmpty(sale.CustomerID), sale.WorkName, sale.Total,
		sale.FinalizedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale %s: %w", sale.ID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene una venta de la empresa. Devuelve nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.company_id = $1 AND s.id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListByCompany lista ventas de la empresa, las más recientes primero.
func (r *SaleRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	query := saleSelect + ` WHERE s.company_id = $1 ORDER BY s.sale_date DESC, s.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetItems devuelve los ítems de la venta en el orden en que se guardaron.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, company_id, kind, product_id, service_id, quantity, unit_price,
		       parent_service_id, base_qty_per_parent, position
		FROM sale_items WHERE sale_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var productID, serviceID, parentID *string
		if err := rows.Scan(&it.ID, &it.SaleID, &it.CompanyID, &it.Kind, &productID, &serviceID,
			&it.Quantity, &it.UnitPrice, &parentID, &it.BaseQuantityPerParent, &it.Position); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.ProductID = stringOrEmpty(productID)
		it.ServiceID = stringOrEmpty(serviceID)
		it.ParentServiceID = stringOrEmpty(parentID)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItems elimina todos los ítems de la venta.
func (r *SaleRepo) DeleteItems(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// InsertItems inserta los ítems en un único batch.
func (r *SaleRepo) InsertItems(ctx context.Context, items []*entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO sale_items (id, sale_id, company_id, kind, product_id, service_id, quantity, unit_price,
		                        parent_service_id, base_qty_per_parent, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query,
			it.ID, it.SaleID, it.CompanyID, it.Kind, nullIfEmpty(it.ProductID), nullIfEmpty(it.ServiceID),
			it.Quantity, it.UnitPrice, nullIfEmpty(it.ParentServiceID), nullDecimalArg(it.BaseQuantityPerParent),
			it.Position,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// Delete elimina la cabecera de la venta. Devuelve domain.ErrNotFound si no existe.
func (r *SaleRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete sale %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
