// Package pdf genera la "Planilha de serviços" de un orçamento en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO: Planilha de serviços                               │
//	│  OBRA / DATA / ENDEREÇO / CLIENTE                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MÃO DE OBRA: Descrição | Unid. | Quant. | V.Unit | V.Total │
//	│  Total mão de obra                                          │
//	│  MATERIAL:    Descrição | Unid. | Quant. | V.Unit | V.Total │
//	│  Total material                                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: imposto sobre material / Total da nota            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appquote "github.com/jhoicas/Orcamentos-api/internal/application/quote"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ appquote.Renderer = (*MarotoQuoteRenderer)(nil)

// MarotoQuoteRenderer implementa quote.Renderer usando Maroto v2.
type MarotoQuoteRenderer struct {
	money *money.Formatter
}

// NewMarotoQuoteRenderer construye el renderer; los importes se formatean con f.
func NewMarotoQuoteRenderer(f *money.Formatter) *MarotoQuoteRenderer {
	return &MarotoQuoteRenderer{money: f}
}

// ContentType implementa quote.Renderer.
func (r *MarotoQuoteRenderer) ContentType() string { return "application/pdf" }

// Extension implementa quote.Renderer.
func (r *MarotoQuoteRenderer) Extension() string { return ".pdf" }

// Render genera el PDF y devuelve sus bytes.
func (r *MarotoQuoteRenderer) Render(_ context.Context, doc appquote.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(doc.Title))
	m.AddRows(r.infoRows(doc)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	totals := doc.Totals
	m.AddRows(r.sectionRows("Mão de Obra", "Sem serviços", "Total mão de obra",
		doc.Lines(engine.KindService), totals.ServicesTotal)...)
	m.AddRows(row.New(4))
	m.AddRows(r.sectionRows("Material", "Sem materiais", "Total material",
		doc.Lines(engine.KindProduct), totals.ProductsTotal)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(r.totalsRow(totals))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(title string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 2,
		})),
	)
}

// infoRows: OBRA / DATA / ENDEREÇO / CLIENTE.
func (r *MarotoQuoteRenderer) infoRows(doc appquote.Document) []core.Row {
	field := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(2).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(10).Add(text.New(nonEmpty(value, "-"), props.Text{Size: 9, Top: 1})),
		)
	}
	return []core.Row{
		field("OBRA:", doc.WorkName),
		field("DATA:", doc.IssuedAt.Format("02/01/2006")),
		field("ENDEREÇO:", doc.CustomerAddress),
		field("CLIENTE:", doc.CustomerName),
	}
}

// sectionRows: título de la sección, cabecera de tabla, una fila por línea y subtotal.
func (r *MarotoQuoteRenderer) sectionRows(title, empty, totalLabel string, lines []engine.LineItem, total decimal.Decimal) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
		}))),
		tableHeaderRow(),
	}
	if len(lines) == 0 {
		rows = append(rows, row.New(7).Add(col.New(12).Add(text.New(empty, props.Text{
			Size: 8, Style: fontstyle.Italic, Color: colorGray, Top: 1, Left: 1,
		}))))
	}
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(r.money.Quantity(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(r.money.Format(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(r.money.Format(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(10).Add(text.New(totalLabel+":", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 2})),
		col.New(2).Add(text.New(r.money.Format(total), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1})),
	))
	return rows
}

// tableHeaderRow: cabecera de la tabla con texto blanco sobre fondo primario.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descrição", 5, align.Left),
		h("Unid.", 1, align.Center),
		h("Quant.", 2, align.Right),
		h("V. Unitário", 2, align.Right),
		h("V. Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// totalsRow: imposto sobre material y total da nota, alineados a la derecha.
func (r *MarotoQuoteRenderer) totalsRow(t engine.DocumentTotals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12,
		})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			text.New(taxLabel(t.TaxRate)+":", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("Total da nota:", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12}),
		),
		col.New(3).Add(
			value(r.money.Format(t.GrandTotal)),
			text.New(r.money.Format(t.Tax), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 6}),
			grand(r.money.Format(t.DocumentTotal)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// taxLabel "13% de imposto".
func taxLabel(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "% de imposto"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
