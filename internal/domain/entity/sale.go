package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa la cabecera de una venta u orçamento persistido.
// FinalizedAt es nil mientras el orçamento no fue marcado como finalizado.
type Sale struct {
	ID           string
	CompanyID    string
	CustomerID   string // vacío si no hay cliente seleccionado
	CustomerName string // solo lectura (join con customers)
	WorkName     string // nombre de la obra/venta
	Total        decimal.Decimal
	SaleDate     time.Time
	FinalizedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tipos de ítem de venta.
const (
	SaleItemProduct = "PRODUCT"
	SaleItemService = "SERVICE"
)

// SaleItem representa una línea persistida de una venta.
// Exactamente uno de ProductID o ServiceID está informado, según Kind.
type SaleItem struct {
	ID                    string
	SaleID                string
	CompanyID             string
	Kind                  string
	ProductID             string
	ServiceID             string
	Quantity              decimal.Decimal
	UnitPrice             decimal.Decimal
	ParentServiceID       string
	BaseQuantityPerParent decimal.NullDecimal
	Position              int
}

// CatalogID devuelve el id de catálogo del ítem (producto o servicio).
func (i SaleItem) CatalogID() string {
	if i.Kind == SaleItemService {
		return i.ServiceID
	}
	return i.ProductID
}
