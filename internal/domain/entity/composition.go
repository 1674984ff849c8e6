package entity

import "github.com/shopspring/decimal"

// CompositionEntry es una regla de lista de materiales: una unidad del servicio
// (o producto terminado) ParentID consume BaseQuantityPerParent unidades de
// ComponentProductID. Es de solo lectura para el motor de orçamentos.
type CompositionEntry struct {
	ID                    string
	ParentID              string
	ComponentProductID    string
	BaseQuantityPerParent decimal.Decimal
}
