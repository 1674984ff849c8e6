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

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura del catálogo: productos, servicios y composición.
// Todos los errores de backend envuelven domain.ErrLookup.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const catalogColumns = `id, company_id, description, price, COALESCE(unit, ''), created_at, updated_at`

// ListProducts lista los productos de la empresa ordenados por descripción.
func (r *CatalogRepo) ListProducts(ctx context.Context, companyID string) ([]*entity.Product, error) {
	query := `SELECT ` + catalogColumns + ` FROM products WHERE company_id = $1 ORDER BY description`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", domain.ErrLookup, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Description, &p.Price, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan product: %w", domain.ErrLookup, err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list products: %w", domain.ErrLookup, err)
	}
	return list, nil
}

// ListServices lista los servicios de la empresa ordenados por descripción.
func (r *CatalogRepo) ListServices(ctx context.Context, companyID string) ([]*entity.Service, error) {
	query := `SELECT ` + catalogColumns + ` FROM services WHERE company_id = $1 ORDER BY description`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: list services: %w", domain.ErrLookup, err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Description, &s.Price, &s.Unit, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan service: %w", domain.ErrLookup, err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list services: %w", domain.ErrLookup, err)
	}
	return list, nil
}

// GetProduct obtiene un producto de la empresa. Devuelve nil, nil si no existe.
func (r *CatalogRepo) GetProduct(ctx context.Context, companyID, id string) (*entity.Product, error) {
	query := `SELECT ` + catalogColumns + ` FROM products WHERE company_id = $1 AND id = $2`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&p.ID, &p.CompanyID, &p.Description, &p.Price, &p.Unit, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get product: %w", domain.ErrLookup, err)
	}
	return &p, nil
}

// GetService obtiene un servicio de la empresa. Devuelve nil, nil si no existe.
func (r *CatalogRepo) GetService(ctx context.Context, companyID, id string) (*entity.Service, error) {
	query := `SELECT ` + catalogColumns + ` FROM services WHERE company_id = $1 AND id = $2`
	var s entity.Service
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&s.ID, &s.CompanyID, &s.Description, &s.Price, &s.Unit, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get service: %w", domain.ErrLookup, err)
	}
	return &s, nil
}

// GetComposition devuelve la lista de materiales del servicio (vacía si no tiene).
func (r *CatalogRepo) GetComposition(ctx context.Context, serviceID string) ([]*entity.CompositionEntry, error) {
	query := `
		SELECT id, parent_id, component_product_id, COALESCE(base_qty_per_parent, 0)
		FROM compositions WHERE parent_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: composición %s: %w", domain.ErrLookup, serviceID, err)
	}
	defer rows.Close()
	var list []*entity.CompositionEntry
	for rows.Next() {
		var e entity.CompositionEntry
		if err := rows.Scan(&e.ID, &e.ParentID, &e.ComponentProductID, &e.BaseQuantityPerParent); err != nil {
			return nil, fmt.Errorf("%w: scan composición: %w", domain.ErrLookup, err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: composición %s: %w", domain.ErrLookup, serviceID, err)
	}
	return list, nil
}
