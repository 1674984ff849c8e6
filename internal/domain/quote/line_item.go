// Package quote contiene el motor de composición de orçamentos: la lista de líneas
// en memoria de un borrador, la expansión de la lista de materiales de un servicio,
// la propagación de cantidades del servicio a sus productos derivados y los totales.
package quote

import "github.com/shopspring/decimal"

// Kind tipo de línea.
type Kind string

const (
	KindProduct Kind = "PRODUCT"
	KindService Kind = "SERVICE"
)

// LineItem una fila del orçamento.
//
// ID es el id de catálogo y no es único dentro de la lista: el mismo producto puede
// aparecer agregado directamente y, además, como componente de un servicio.
// ParentServiceID es una referencia débil (no de propiedad) a la línea de servicio que
// generó esta línea; BaseQuantityPerParent solo existe cuando hay ParentServiceID.
type LineItem struct {
	ID                    string
	Kind                  Kind
	Description           string
	Unit                  string
	Quantity              decimal.Decimal
	UnitPrice             decimal.Decimal
	Subtotal              decimal.Decimal
	ParentServiceID       string
	BaseQuantityPerParent *decimal.Decimal
}

func newLine(id string, kind Kind, description, unit string, quantity, unitPrice decimal.Decimal) LineItem {
	l := LineItem{
		ID:          id,
		Kind:        kind,
		Description: description,
		Unit:        unit,
		UnitPrice:   unitPrice,
	}
	l.setQuantity(quantity)
	return l
}

// setQuantity es el único punto que modifica Quantity; Subtotal se recalcula siempre.
func (l *LineItem) setQuantity(q decimal.Decimal) {
	if q.IsNegative() {
		q = decimal.Zero
	}
	l.Quantity = q
	l.Subtotal = q.Mul(l.UnitPrice)
}

// IsDerived indica si la línea sigue la cantidad de un servicio padre.
func (l LineItem) IsDerived() bool {
	return l.ParentServiceID != "" && l.BaseQuantityPerParent != nil
}

func (l LineItem) clone() LineItem {
	if l.BaseQuantityPerParent != nil {
		b := *l.BaseQuantityPerParent
		l.BaseQuantityPerParent = &b
	}
	return l
}
