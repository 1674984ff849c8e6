package quote

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orcamentos-api/internal/domain"
)

// State estado del ciclo de vida de un borrador.
type State string

const (
	StateEmpty     State = "EMPTY"
	StateEditing   State = "EDITING"
	StateCommitted State = "COMMITTED"
	StateDiscarded State = "DISCARDED"
)

// Draft borrador de orçamento en memoria. Pertenece a una sola sesión de edición;
// el mutex serializa todas las mutaciones de la lista, incluida la espera de la
// consulta de composición dentro de AddService.
type Draft struct {
	mu sync.Mutex

	id          string
	companyID   string
	saleID      string
	workName    string
	customer    *Customer
	finalized   bool
	finalizedAt *time.Time
	lines       []LineItem
	state       State
	// touchedAt en UnixNano; se lee sin tomar mu.
	touchedAt atomic.Int64

	onLookupError LookupObserver
	now           func() time.Time
}

// Option configura un Draft.
type Option func(*Draft)

// WithLookupObserver registra quién recibe los fallos de composición absorbidos.
func WithLookupObserver(fn LookupObserver) Option {
	return func(d *Draft) { d.onLookupError = fn }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(d *Draft) { d.now = now }
}

// NewDraft crea un borrador vacío ("novo orçamento").
func NewDraft(id, companyID string, opts ...Option) *Draft {
	d := &Draft{id: id, companyID: companyID, state: StateEmpty, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	d.touch()
	return d
}

// Header datos de cabecera de una venta existente.
type Header struct {
	SaleID      string
	WorkName    string
	Customer    *Customer
	FinalizedAt *time.Time
}

// Restore abre una venta persistida para edición; el borrador nace en EDITING.
func Restore(id, companyID string, h Header, lines []LineItem, opts ...Option) *Draft {
	d := NewDraft(id, companyID, opts...)
	d.saleID = h.SaleID
	d.workName = h.WorkName
	d.customer = h.Customer
	d.finalized = h.FinalizedAt != nil
	d.finalizedAt = h.FinalizedAt
	d.lines = make([]LineItem, 0, len(lines))
	for _, l := range lines {
		l = l.clone()
		l.setQuantity(l.Quantity)
		d.lines = append(d.lines, l)
	}
	d.state = StateEditing
	d.syncDerived()
	return d
}

// syncDerived recalcula cada línea derivada desde el servicio que la generó: el
// servicio con ese id más cercano hacia atrás o, si no hay, el primero de la lista.
func (d *Draft) syncDerived() {
	for i := range d.lines {
		line := &d.lines[i]
		if line.Kind != KindProduct || !line.IsDerived() {
			continue
		}
		if parent := d.parentOf(i); parent != nil {
			line.setQuantity(line.BaseQuantityPerParent.Mul(parent.Quantity))
		}
	}
}

func (d *Draft) parentOf(i int) *LineItem {
	id := d.lines[i].ParentServiceID
	for j := i - 1; j >= 0; j-- {
		if d.lines[j].Kind == KindService && d.lines[j].ID == id {
			return &d.lines[j]
		}
	}
	for j := i + 1; j < len(d.lines); j++ {
		if d.lines[j].Kind == KindService && d.lines[j].ID == id {
			return &d.lines[j]
		}
	}
	return nil
}

// ID id del borrador (sesión).
func (d *Draft) ID() string { return d.id }

// CompanyID empresa dueña del borrador.
func (d *Draft) CompanyID() string { return d.companyID }

// State estado actual.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SaleID id de la venta respaldada (vacío hasta el primer commit de un borrador nuevo).
func (d *Draft) SaleID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saleID
}

// TouchedAt momento de la última operación sobre el borrador. No espera a una
// mutación en curso (por ejemplo AddService bloqueado en la consulta de composición).
func (d *Draft) TouchedAt() time.Time {
	return time.Unix(0, d.touchedAt.Load())
}

func (d *Draft) touch() {
	d.touchedAt.Store(d.now().UnixNano())
}

func (d *Draft) closed() bool {
	return d.state == StateCommitted || d.state == StateDiscarded
}

// beginMutation debe llamarse con el lock tomado.
func (d *Draft) beginMutation() error {
	if d.closed() {
		return domain.ErrDraftClosed
	}
	d.state = StateEditing
	d.touch()
	return nil
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("%w: %w (%d)", domain.ErrInvalidInput, domain.ErrLineNotFound, i)
	}
	return nil
}

// AddProduct agrega una línea de producto. Precio nulo vale 0.
func (d *Draft) AddProduct(ref CatalogRef, quantity decimal.Decimal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.beginMutation(); err != nil {
		return err
	}
	d.lines = append(d.lines, newLine(ref.ID, KindProduct, ref.Description, ref.Unit, quantity, ref.price()))
	return nil
}

// AddService agrega la línea de servicio y, a continuación, una línea de producto
// derivada por cada entrada de su lista de materiales, resolviendo descripción y precio
// desde la instantánea de catálogo. Si la consulta de composición falla, el servicio
// queda agregado sin derivados y el error no se devuelve (solo se notifica al observer).
func (d *Draft) AddService(ctx context.Context, ref CatalogRef, quantity decimal.Decimal, catalog *Catalog, src CompositionSource) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.beginMutation(); err != nil {
		return err
	}
	service := newLine(ref.ID, KindService, ref.Description, ref.Unit, quantity, ref.price())
	d.lines = append(d.lines, service)

	if src == nil {
		return nil
	}
	entries, err := src.GetComposition(ctx, ref.ID)
	if err != nil {
		if d.onLookupError != nil {
			d.onLookupError(d.id, ref.ID, err)
		}
		return nil
	}

	for _, e := range entries {
		if e == nil {
			continue
		}
		ratio := e.BaseQuantityPerParent
		if ratio.IsZero() {
			ratio = decimal.NewFromInt(1)
		}
		component, ok := catalog.Product(e.ComponentProductID)
		if !ok {
			component = CatalogRef{
				ID:          e.ComponentProductID,
				Description: "Produto " + e.ComponentProductID,
			}
		}
		child := newLine(component.ID, KindProduct, component.Description, component.Unit,
			ratio.Mul(service.Quantity), component.price())
		child.ParentServiceID = service.ID
		child.BaseQuantityPerParent = &ratio
		d.lines = append(d.lines, child)
	}
	return nil
}

// SetQuantity cambia la cantidad de la línea i (se fuerza a >= 0). Si la línea es un
// servicio, recalcula en el mismo paso todas las líneas derivadas de ese servicio que
// tienen proporción registrada. La propagación tiene un solo nivel.
func (d *Draft) SetQuantity(i int, quantity decimal.Decimal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return domain.ErrDraftClosed
	}
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if err := d.beginMutation(); err != nil {
		return err
	}
	changed := &d.lines[i]
	changed.setQuantity(quantity)
	if changed.Kind != KindService {
		return nil
	}
	for j := range d.lines {
		if j == i {
			continue
		}
		line := &d.lines[j]
		if line.ParentServiceID == changed.ID && line.BaseQuantityPerParent != nil {
			line.setQuantity(line.BaseQuantityPerParent.Mul(changed.Quantity))
		}
	}
	return nil
}

// SetQuantityText igual que SetQuantity pero con el texto tecleado por el usuario.
func (d *Draft) SetQuantityText(i int, text string) error {
	return d.SetQuantity(i, ParseQuantity(text))
}

// RemoveLine elimina exactamente la línea i. Las líneas derivadas de un servicio
// eliminado permanecen como líneas independientes.
func (d *Draft) RemoveLine(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return domain.ErrDraftClosed
	}
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if err := d.beginMutation(); err != nil {
		return err
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return nil
}

// SetWorkName define el nombre de la obra/venta.
func (d *Draft) SetWorkName(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.beginMutation(); err != nil {
		return err
	}
	d.workName = name
	return nil
}

// SetCustomer selecciona (o limpia, con nil) el cliente.
func (d *Draft) SetCustomer(c *Customer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.beginMutation(); err != nil {
		return err
	}
	if c != nil {
		cp := *c
		c = &cp
	}
	d.customer = c
	return nil
}

// SetFinalized marca o desmarca el orçamento como finalizado.
func (d *Draft) SetFinalized(finalized bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.beginMutation(); err != nil {
		return err
	}
	d.finalized = finalized
	if !finalized {
		d.finalizedAt = nil
	}
	return nil
}

// Lines copia de las líneas actuales.
func (d *Draft) Lines() []LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.copyLines()
}

func (d *Draft) copyLines() []LineItem {
	out := make([]LineItem, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.clone()
	}
	return out
}

// ComputeSections agrupa las líneas actuales. Ver Sections.
func (d *Draft) ComputeSections() iter.Seq[Section] {
	return Sections(d.Lines())
}

// ComputeTotals totales actuales del borrador.
func (d *Draft) ComputeTotals() Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ComputeTotals(d.lines)
}

// Snapshot copia inmutable del borrador.
func (d *Draft) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Draft) snapshotLocked() Snapshot {
	var customer *Customer
	if d.customer != nil {
		c := *d.customer
		customer = &c
	}
	lines := d.copyLines()
	return Snapshot{
		DraftID:     d.id,
		CompanyID:   d.companyID,
		SaleID:      d.saleID,
		WorkName:    d.workName,
		Customer:    customer,
		Finalized:   d.finalized,
		FinalizedAt: d.finalizedAt,
		Lines:       lines,
		Totals:      ComputeTotals(lines),
	}
}

// Validate verifica que el borrador se pueda guardar.
func (d *Draft) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

func (d *Draft) validateLocked() error {
	if strings.TrimSpace(d.workName) == "" {
		return fmt.Errorf("%w: el nombre de la obra es obligatorio", domain.ErrValidation)
	}
	if len(d.lines) == 0 {
		return fmt.Errorf("%w: agregue al menos un ítem", domain.ErrValidation)
	}
	return nil
}

// Commit valida y persiste el borrador a través del gateway. Si la validación o la
// persistencia fallan, el borrador sigue en EDITING con su contenido intacto para que
// el usuario pueda reintentar. En éxito pasa a COMMITTED (terminal).
func (d *Draft) Commit(ctx context.Context, gw Gateway) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return "", domain.ErrDraftClosed
	}
	if err := d.validateLocked(); err != nil {
		return "", err
	}
	snap := d.snapshotLocked()
	if snap.Finalized && snap.FinalizedAt == nil {
		today := d.now()
		snap.FinalizedAt = &today
	}
	saleID, err := gw.Commit(ctx, snap)
	if err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return "", err
	}
	d.saleID = saleID
	d.finalizedAt = snap.FinalizedAt
	d.state = StateCommitted
	d.touch()
	return saleID, nil
}

// Discard descarta el borrador sin efectos secundarios.
func (d *Draft) Discard() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return domain.ErrDraftClosed
	}
	d.state = StateDiscarded
	return nil
}
