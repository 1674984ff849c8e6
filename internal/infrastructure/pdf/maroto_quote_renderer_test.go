package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appquote "github.com/jhoicas/Orcamentos-api/internal/application/quote"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Orcamentos-api/pkg/money"
)

func TestRender_GeneraPDF(t *testing.T) {
	r := pdf.NewMarotoQuoteRenderer(money.New("pt-BR"))
	lines := []engine.LineItem{
		{ID: "s-1", Kind: engine.KindService, Description: "Pintura", Unit: "m²",
			Quantity: decimal.NewFromInt(30), UnitPrice: decimal.NewFromInt(25), Subtotal: decimal.NewFromInt(750)},
	}
	var sections []engine.Section
	for s := range engine.Sections(lines) {
		sections = append(sections, s)
	}
	doc := appquote.Document{
		Title:        appquote.DocumentTitle,
		WorkName:     "Fachada",
		CustomerName: "Maria",
		IssuedAt:     time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Sections:     sections,
		Totals:       engine.ComputeTotals(lines).WithTax(decimal.RequireFromString("0.13")),
	}

	out, err := r.Render(context.Background(), doc)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, ".pdf", r.Extension())
}
