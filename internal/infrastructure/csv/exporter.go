// Package csv exporta el orçamento como planilla separada por ';' (abre directo en Excel).
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"

	appquote "github.com/jhoicas/Orcamentos-api/internal/application/quote"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
)

var _ appquote.Renderer = (*Exporter)(nil)

var columns = []string{"Descricao", "Unid.", "Quantidade", "VlrUnit", "Subtotal"}

// Exporter implementa quote.Renderer en CSV.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ContentType implementa quote.Renderer.
func (e *Exporter) ContentType() string { return "text/csv; charset=utf-8" }

// Extension implementa quote.Renderer.
func (e *Exporter) Extension() string { return ".csv" }

// Render escribe cabecera, bloque de servicios, bloque de materiales y totales.
func (e *Exporter) Render(_ context.Context, doc appquote.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	t := doc.Totals
	records := [][]string{
		{doc.Title},
		{"Obra", doc.WorkName},
		{"Cliente", doc.CustomerName},
		{""},
	}
	records = append(records, block("Serviços", "Total serviços", doc.Lines(engine.KindService), t.ServicesTotal)...)
	records = append(records, []string{""})
	records = append(records, block("Materiais", "Total materiais", doc.Lines(engine.KindProduct), t.ProductsTotal)...)
	records = append(records,
		[]string{""},
		[]string{"Imposto " + t.TaxRate.Mul(decimal.NewFromInt(100)).String() + "%", "", "", "", t.Tax.StringFixed(2)},
		[]string{"Total da nota", "", "", "", t.DocumentTotal.StringFixed(2)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func block(title, totalLabel string, lines []engine.LineItem, total decimal.Decimal) [][]string {
	out := make([][]string, 0, len(lines)+3)
	out = append(out, []string{title}, columns)
	for _, l := range lines {
		out = append(out, []string{l.Description, l.Unit, l.Quantity.String(), l.UnitPrice.StringFixed(2), l.Subtotal.StringFixed(2)})
	}
	return append(out, []string{totalLabel, "", "", "", total.StringFixed(2)})
}
