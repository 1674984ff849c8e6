package dto

import "github.com/shopspring/decimal"

// CatalogItemResponse producto o servicio del catálogo. Price nulo si no tiene precio.
type CatalogItemResponse struct {
	ID          string           `json:"id"`
	Kind        string           `json:"kind"`
	Description string           `json:"description"`
	Unit        string           `json:"unit,omitempty"`
	Price       *decimal.Decimal `json:"price"`
}

// CompositionEntryResponse un componente de la lista de materiales de un servicio.
type CompositionEntryResponse struct {
	ComponentProductID    string          `json:"component_product_id"`
	Description           string          `json:"description"`
	Unit                  string          `json:"unit,omitempty"`
	BaseQuantityPerParent decimal.Decimal `json:"base_qty_per_parent"`
}
