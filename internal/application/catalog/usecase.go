// Package catalog expone la consulta del catálogo (productos, servicios y composición)
// que la pantalla de orçamentos usa para elegir ítems.
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orcamentos-api/internal/application/dto"
	"github.com/jhoicas/Orcamentos-api/internal/domain"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
)

// UseCase consultas de catálogo.
type UseCase struct {
	repo repository.CatalogRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CatalogRepository) *UseCase {
	return &UseCase{repo: repo}
}

// ListProducts productos de la empresa filtrados por descripción (query vacío = todos).
func (uc *UseCase) ListProducts(ctx context.Context, companyID, query string) ([]dto.CatalogItemResponse, error) {
	products, err := uc.repo.ListProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toItems(engine.NewCatalog(products, nil).Products(query), engine.KindProduct), nil
}

// ListServices servicios de la empresa filtrados por descripción.
func (uc *UseCase) ListServices(ctx context.Context, companyID, query string) ([]dto.CatalogItemResponse, error) {
	services, err := uc.repo.ListServices(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toItems(engine.NewCatalog(nil, services).Services(query), engine.KindService), nil
}

// GetComposition lista de materiales del servicio con descripción y unidad de cada componente.
func (uc *UseCase) GetComposition(ctx context.Context, companyID, serviceID string) ([]dto.CompositionEntryResponse, error) {
	service, err := uc.repo.GetService(ctx, companyID, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, fmt.Errorf("servicio %s: %w", serviceID, domain.ErrNotFound)
	}
	entries, err := uc.repo.GetComposition(ctx, service.ID)
	if err != nil {
		return nil, err
	}
	products, err := uc.repo.ListProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	snapshot := engine.NewCatalog(products, nil)

	out := make([]dto.CompositionEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.CompositionEntryResponse{
			ComponentProductID:    e.ComponentProductID,
			Description:           "Produto " + e.ComponentProductID,
			BaseQuantityPerParent: e.BaseQuantityPerParent,
		}
		if item.BaseQuantityPerParent.IsZero() {
			item.BaseQuantityPerParent = decimal.NewFromInt(1)
		}
		if ref, ok := snapshot.Product(e.ComponentProductID); ok {
			item.Description = ref.Description
			item.Unit = ref.Unit
		}
		out = append(out, item)
	}
	return out, nil
}

func toItems(refs []engine.CatalogRef, kind engine.Kind) []dto.CatalogItemResponse {
	out := make([]dto.CatalogItemResponse, 0, len(refs))
	for _, r := range refs {
		item := dto.CatalogItemResponse{ID: r.ID, Kind: string(kind), Description: r.Description, Unit: r.Unit}
		if r.Price.Valid {
			p := r.Price.Decimal
			item.Price = &p
		}
		out = append(out, item)
	}
	return out
}
