package csv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appquote "github.com/jhoicas/Orcamentos-api/internal/application/quote"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/internal/infrastructure/csv"
)

func TestRender_Layout(t *testing.T) {
	ratio := decimal.NewFromInt(2)
	lines := []engine.LineItem{
		{ID: "s-1", Kind: engine.KindService, Description: "Reboco", Unit: "m²", Quantity: decimal.NewFromInt(3),
			UnitPrice: decimal.NewFromInt(40), Subtotal: decimal.NewFromInt(120)},
		{ID: "p-1", Kind: engine.KindProduct, Description: "Cimento; CP II", Unit: "sc", Quantity: decimal.NewFromInt(6),
			UnitPrice: decimal.RequireFromString("35.5"), Subtotal: decimal.NewFromInt(213),
			ParentServiceID: "s-1", BaseQuantityPerParent: &ratio},
	}
	var sections []engine.Section
	for s := range engine.Sections(lines) {
		sections = append(sections, s)
	}
	doc := appquote.Document{
		Title:        appquote.DocumentTitle,
		WorkName:     "Casa",
		CustomerName: "João",
		Sections:     sections,
		Totals:       engine.ComputeTotals(lines).WithTax(decimal.RequireFromString("0.13")),
	}

	out, err := csv.NewExporter().Render(context.Background(), doc)

	require.NoError(t, err)
	want := strings.Join([]string{
		"Planilha de serviços",
		"Obra;Casa",
		"Cliente;João",
		"",
		"Serviços",
		"Descricao;Unid.;Quantidade;VlrUnit;Subtotal",
		"Reboco;m²;3;40.00;120.00",
		"Total serviços;;;;120.00",
		"",
		"Materiais",
		"Descricao;Unid.;Quantidade;VlrUnit;Subtotal",
		`"Cimento; CP II";sc;6;35.50;213.00`,
		"Total materiais;;;;213.00",
		"",
		"Imposto 13%;;;;27.69",
		"Total da nota;;;;360.69",
	}, "\n") + "\n"
	assert.Equal(t, want, string(out))
}

func TestRender_SeccionesVacias(t *testing.T) {
	doc := appquote.Document{Title: appquote.DocumentTitle, WorkName: "Vazio"}

	out, err := csv.NewExporter().Render(context.Background(), doc)

	require.NoError(t, err)
	assert.Contains(t, string(out), "Total serviços;;;;0.00\n")
	assert.Contains(t, string(out), "Total materiais;;;;0.00\n")
}
