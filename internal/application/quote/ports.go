// Package quote orquesta las sesiones de edición de orçamentos: instantánea del
// catálogo, borradores en memoria, guardado transaccional, apertura de ventas
// existentes, borrado y exportación.
package quote

import (
	"context"
	"time"

	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
)

// SaleTxRunner ejecuta fn dentro de una transacción con repos de venta y financiero.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		financialRepo repository.FinancialRepository,
	) error) error
}

// Renderer produce un documento exportable (PDF, CSV) a partir del orçamento.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// DocumentTitle título de los documentos exportados.
const DocumentTitle = "Planilha de serviços"

// Document datos de un orçamento listo para exportar.
type Document struct {
	Title           string
	WorkName        string
	CustomerName    string
	CustomerAddress string
	IssuedAt        time.Time
	Sections        []engine.Section
	Totals          engine.DocumentTotals
}

// Lines devuelve las líneas de la sección del tipo dado (nil si la sección no existe).
func (d Document) Lines(kind engine.Kind) []engine.LineItem {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s.Lines
		}
	}
	return nil
}
