package quote

import (
	"context"
	"time"

	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
)

// CompositionSource entrega la lista de materiales de un servicio.
// Los fallos de transporte/backend deben envolver domain.ErrLookup.
type CompositionSource interface {
	GetComposition(ctx context.Context, serviceID string) ([]*entity.CompositionEntry, error)
}

// Gateway persiste un borrador finalizado: escribe la cabecera de la venta y reemplaza
// todos sus ítems por las líneas del snapshot. Devuelve el id de la venta.
type Gateway interface {
	Commit(ctx context.Context, snap Snapshot) (saleID string, err error)
}

// LookupObserver recibe los fallos de composición que AddService absorbe.
type LookupObserver func(draftID, serviceID string, err error)

// Customer cliente seleccionado en el borrador (referencia, no propiedad).
type Customer struct {
	ID      string
	Name    string
	Address string
}

// Snapshot copia inmutable de un borrador, usada para persistir y para exportar.
type Snapshot struct {
	DraftID     string
	CompanyID   string
	SaleID      string // vacío si la venta aún no existe
	WorkName    string
	Customer    *Customer
	Finalized   bool
	FinalizedAt *time.Time
	Lines       []LineItem
	Totals      Totals
}
