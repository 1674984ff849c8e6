package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto (material) del catálogo de la empresa.
// Price es nulo cuando el producto todavía no tiene precio de venta definido.
type Product struct {
	ID          string
	CompanyID   string
	Description string
	Price       decimal.NullDecimal
	Unit        string // unidad de medida mostrada en el orçamento (un, m², kg...)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Service representa un servicio (mano de obra) del catálogo.
type Service struct {
	ID          string
	CompanyID   string
	Description string
	Price       decimal.NullDecimal
	Unit        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
