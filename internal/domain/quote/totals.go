package quote

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Títulos de sección, en el orden en que se muestran y exportan.
const (
	SectionServices = "Serviços"
	SectionProducts = "Produtos"
)

var sectionOrder = []struct {
	title string
	kind  Kind
}{
	{SectionServices, KindService},
	{SectionProducts, KindProduct},
}

// Section grupo de líneas de un mismo tipo.
type Section struct {
	Title string
	Kind  Kind
	Lines []LineItem
}

// Sections agrupa las líneas en Servicios y Productos (incluye derivados) conservando el
// orden de inserción dentro de cada grupo. Los grupos vacíos se omiten. La secuencia es
// perezosa y se puede recorrer varias veces.
func Sections(lines []LineItem) iter.Seq[Section] {
	return func(yield func(Section) bool) {
		for _, s := range sectionOrder {
			var group []LineItem
			for _, l := range lines {
				if l.Kind == s.kind {
					group = append(group, l.clone())
				}
			}
			if len(group) == 0 {
				continue
			}
			if !yield(Section{Title: s.title, Kind: s.kind, Lines: group}) {
				return
			}
		}
	}
}

// Totals totales del borrador. GrandTotal es el valor que se persiste en la venta.
type Totals struct {
	ServicesTotal decimal.Decimal
	ProductsTotal decimal.Decimal
	GrandTotal    decimal.Decimal
}

// ComputeTotals suma subtotales por tipo.
func ComputeTotals(lines []LineItem) Totals {
	var t Totals
	for _, l := range lines {
		switch l.Kind {
		case KindService:
			t.ServicesTotal = t.ServicesTotal.Add(l.Subtotal)
		case KindProduct:
			t.ProductsTotal = t.ProductsTotal.Add(l.Subtotal)
		}
	}
	t.GrandTotal = t.ServicesTotal.Add(t.ProductsTotal)
	return t
}

// DocumentTotals totales para el documento exportado: agrega un impuesto de tasa fija
// solo sobre los productos. Es una cifra de presentación; nunca vuelve al borrador.
type DocumentTotals struct {
	Totals
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	DocumentTotal decimal.Decimal
}

// WithTax calcula los totales del documento para la tasa dada (0.13 = 13%).
func (t Totals) WithTax(rate decimal.Decimal) DocumentTotals {
	tax := t.ProductsTotal.Mul(rate)
	return DocumentTotals{
		Totals:        t,
		TaxRate:       rate,
		Tax:           tax,
		DocumentTotal: t.GrandTotal.Add(tax),
	}
}
