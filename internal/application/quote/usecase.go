package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Orcamentos-api/internal/application/dto"
	"github.com/jhoicas/Orcamentos-api/internal/domain"
	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
	"github.com/jhoicas/Orcamentos-api/pkg/logger"
	"github.com/jhoicas/Orcamentos-api/pkg/money"
)

// Settings parámetros del caso de uso.
type Settings struct {
	TaxRate decimal.Decimal
	Locale  string
}

// UseCase casos de uso de orçamentos.
type UseCase struct {
	catalogRepo  repository.CatalogRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	tx           SaleTxRunner
	gateway      engine.Gateway
	store        *DraftStore
	renderers    map[string]Renderer
	taxRate      decimal.Decimal
	money        *money.Formatter
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. renderers se indexa por formato ("pdf", "csv").
func NewUseCase(
	catalogRepo repository.CatalogRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	tx SaleTxRunner,
	store *DraftStore,
	renderers map[string]Renderer,
	settings Settings,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		tx:           tx,
		gateway:      NewSaleGateway(tx),
		store:        store,
		renderers:    renderers,
		taxRate:      settings.TaxRate,
		money:        money.New(settings.Locale),
		log:          log.Component("quote"),
		now:          time.Now,
	}
}

// ── Sesiones ─────────────────────────────────────────────────────────────────

func (uc *UseCase) draftOptions() []engine.Option {
	return []engine.Option{
		engine.WithClock(uc.now),
		engine.WithLookupObserver(func(draftID, serviceID string, err error) {
			uc.log.Warn().Err(err).
				Str("draft_id", draftID).
				Str("service_id", serviceID).
				Msg("composición no disponible; servicio agregado sin materiales")
		}),
	}
}

func (uc *UseCase) loadCatalog(ctx context.Context, companyID string) (*engine.Catalog, error) {
	products, err := uc.catalogRepo.ListProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	services, err := uc.catalogRepo.ListServices(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return engine.NewCatalog(products, services), nil
}

func (uc *UseCase) resolveCustomer(ctx context.Context, companyID, customerID string) (*engine.Customer, error) {
	c, err := uc.customerRepo.GetByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", customerID, domain.ErrNotFound)
	}
	return &engine.Customer{ID: c.ID, Name: c.Name, Address: c.Address}, nil
}

// NewDraft abre un orçamento vacío con la instantánea actual del catálogo.
func (uc *UseCase) NewDraft(ctx context.Context, companyID string, in dto.OpenDraftRequest) (*dto.DraftResponse, error) {
	catalog, err := uc.loadCatalog(ctx, companyID)
	if err != nil {
		return nil, err
	}
	draft := engine.NewDraft(uuid.NewString(), companyID, uc.draftOptions()...)
	if in.WorkName != "" {
		_ = draft.SetWorkName(in.WorkName)
	}
	if in.CustomerID != "" {
		customer, err := uc.resolveCustomer(ctx, companyID, in.CustomerID)
		if err != nil {
			return nil, err
		}
		_ = draft.SetCustomer(customer)
	}
	uc.store.put(&session{draft: draft, catalog: catalog})
	uc.log.Debug().Str("draft_id", draft.ID()).Str("company_id", companyID).Msg("borrador creado")
	return uc.view(draft), nil
}

// OpenSale carga una venta guardada en un borrador nuevo para editarla. Las
// descripciones se resuelven desde el catálogo actual; cantidad 0 se abre como 1 y
// los materiales derivados se recalculan desde la cantidad restaurada del servicio.
func (uc *UseCase) OpenSale(ctx context.Context, companyID, saleID string) (*dto.DraftResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.loadCatalog(ctx, companyID)
	if err != nil {
		return nil, err
	}

	header := engine.Header{SaleID: sale.ID, WorkName: sale.WorkName, FinalizedAt: sale.FinalizedAt}
	if sale.CustomerID != "" {
		header.Customer = &engine.Customer{ID: sale.CustomerID, Name: sale.CustomerName}
		c, err := uc.customerRepo.GetByID(ctx, companyID, sale.CustomerID)
		switch {
		case err != nil:
			// La venta se abre igual, sin dirección de cliente.
			uc.log.Warn().Err(err).
				Str("sale_id", sale.ID).
				Str("customer_id", sale.CustomerID).
				Msg("no se pudo cargar el cliente de la venta")
		case c != nil:
			header.Customer.Address = c.Address
		}
	}
	draft := engine.Restore(uuid.NewString(), companyID, header, restoreLines(items, catalog), uc.draftOptions()...)
	uc.store.put(&session{draft: draft, catalog: catalog})
	return uc.view(draft), nil
}

func restoreLines(items []*entity.SaleItem, catalog *engine.Catalog) []engine.LineItem {
	lines := make([]engine.LineItem, 0, len(items))
	for _, it := range items {
		id := it.CatalogID()
		line := engine.LineItem{
			ID:              id,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			ParentServiceID: it.ParentServiceID,
		}
		var ref engine.CatalogRef
		var ok bool
		if it.Kind == entity.SaleItemService {
			line.Kind = engine.KindService
			ref, ok = catalog.Service(id)
			line.Description = "Serviço " + id
		} else {
			line.Kind = engine.KindProduct
			ref, ok = catalog.Product(id)
			line.Description = "Produto " + id
		}
		if ok {
			line.Description = ref.Description
			line.Unit = ref.Unit
		}
		if line.Quantity.Sign() <= 0 {
			line.Quantity = decimal.NewFromInt(1)
		}
		if it.ParentServiceID != "" && it.BaseQuantityPerParent.Valid {
			ratio := it.BaseQuantityPerParent.Decimal
			line.BaseQuantityPerParent = &ratio
		}
		lines = append(lines, line)
	}
	return lines
}

// GetDraft vista actual del borrador.
func (uc *UseCase) GetDraft(_ context.Context, companyID, draftID string) (*dto.DraftResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	return uc.view(sess.draft), nil
}

// ── Edición ──────────────────────────────────────────────────────────────────

func quantityOrOne(q *decimal.Decimal) decimal.Decimal {
	if q == nil {
		return decimal.NewFromInt(1)
	}
	return *q
}

// AddProduct agrega un producto del catálogo al borrador.
func (uc *UseCase) AddProduct(ctx context.Context, companyID, draftID string, in dto.AddItemRequest) (*dto.DraftResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	ref, ok := sess.catalog.Product(in.CatalogID)
	if !ok {
		p, err := uc.catalogRepo.GetProduct(ctx, companyID, in.CatalogID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", in.CatalogID, domain.ErrNotFound)
		}
		ref = engine.ProductRef(p)
	}
	if err := sess.draft.AddProduct(ref, quantityOrOne(in.Quantity)); err != nil {
		return nil, err
	}
	return uc.view(sess.draft), nil
}

// AddService agrega un servicio y sus materiales. Si la composición no se puede
// consultar, el servicio se agrega igual (solo se registra un WARN).
func (uc *UseCase) AddService(ctx context.Context, companyID, draftID string, in dto.AddItemRequest) (*dto.DraftResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	ref, ok := sess.catalog.Service(in.CatalogID)
	if !ok {
		s, err := uc.catalogRepo.GetService(ctx, companyID, in.CatalogID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("servicio %s: %w", in.CatalogID, domain.ErrNotFound)
		}
		ref = engine.ServiceRef(s)
	}
	if err := sess.draft.AddService(ctx, ref, quantityOrOne(in.Quantity), sess.catalog, uc.catalogRepo); err != nil {
		return nil, err
	}
	return uc.view(sess.draft), nil
}

// SetQuantity cambia la cantidad de la línea index a partir del texto tecleado.
func (uc *UseCase) SetQuantity(_ context.Context, companyID, draftID string, index int, in dto.SetQuantityRequest) (*dto.DraftResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	if err := sess.draft.SetQuantityText(index, string(in.Quantity)); err != nil {
		return nil, err
	}
	return uc.view(sess.draft), nil
}

// RemoveLine elimina la línea index.
func (uc *UseCase) RemoveLine(_ context.Context, companyID, draftID string, index int) (*dto.DraftResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	if err := sess.draft.RemoveLine(index); err != nil {
		return nil, err
	}
	return uc.view(sess.draft), nil
}

// UpdateDraft aplica los cambios de cabecera presentes en in.
func (uc *UseCase) UpdateDraft(ctx context.Context, companyID, draftID string, in dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	var customer *engine.Customer
	if in.CustomerID != nil && *in.CustomerID != "" {
		if customer, err = uc.resolveCustomer(ctx, companyID, *in.CustomerID); err != nil {
			return nil, err
		}
	}
	if in.WorkName != nil {
		if err := sess.draft.SetWorkName(*in.WorkName); err != nil {
			return nil, err
		}
	}
	if in.CustomerID != nil {
		if err := sess.draft.SetCustomer(customer); err != nil {
			return nil, err
		}
	}
	if in.Finalized != nil {
		if err := sess.draft.SetFinalized(*in.Finalized); err != nil {
			return nil, err
		}
	}
	return uc.view(sess.draft), nil
}

// ── Ciclo de vida ────────────────────────────────────────────────────────────

// Commit valida y guarda el borrador. En error el borrador queda editable.
func (uc *UseCase) Commit(ctx context.Context, companyID, draftID string) (*dto.CommitResponse, error) {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, err
	}
	saleID, err := sess.draft.Commit(ctx, uc.gateway)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			uc.log.Error().Err(err).Str("draft_id", draftID).Msg("no se pudo guardar el orçamento")
		}
		return nil, err
	}
	totals := sess.draft.ComputeTotals()
	uc.log.Info().
		Str("draft_id", draftID).
		Str("sale_id", saleID).
		Str("grand_total", totals.GrandTotal.StringFixed(2)).
		Msg("orçamento guardado")
	return &dto.CommitResponse{SaleID: saleID}, nil
}

// Discard descarta el borrador y libera la sesión.
func (uc *UseCase) Discard(_ context.Context, companyID, draftID string) error {
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return err
	}
	uc.store.delete(draftID)
	return sess.draft.Discard()
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// ListSales ventas de la empresa, las más recientes primero.
func (uc *UseCase) ListSales(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SaleResponse{
			ID:           s.ID,
			CustomerID:   s.CustomerID,
			CustomerName: s.CustomerName,
			WorkName:     s.WorkName,
			Total:        s.Total,
			SaleDate:     s.SaleDate,
			FinalizedAt:  s.FinalizedAt,
		})
	}
	return out, nil
}

// DeleteSale elimina la venta con sus lanzamientos financieros e ítems, en ese orden y
// en una sola transacción.
func (uc *UseCase) DeleteSale(ctx context.Context, companyID, saleID string) error {
	sale, err := uc.saleRepo.GetByID(ctx, companyID, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	err = uc.tx.RunSale(ctx, func(sales repository.SaleRepository, financial repository.FinancialRepository) error {
		if err := financial.DeleteBySale(ctx, sale.ID); err != nil {
			return err
		}
		if err := sales.DeleteItems(ctx, sale.ID); err != nil {
			return err
		}
		return sales.Delete(ctx, companyID, sale.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: eliminar venta %s: %w", domain.ErrRemoval, sale.ID, err)
	}
	uc.log.Info().Str("sale_id", sale.ID).Msg("venta eliminada")
	return nil
}

// ── Exportación ──────────────────────────────────────────────────────────────

// Export genera el documento del borrador en el formato pedido ("pdf" o "csv").
// Devuelve los bytes, el content type y un nombre de archivo sugerido.
func (uc *UseCase) Export(ctx context.Context, companyID, draftID, format string) ([]byte, string, string, error) {
	renderer, ok := uc.renderers[strings.ToLower(format)]
	if !ok {
		return nil, "", "", fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	sess, err := uc.store.get(companyID, draftID)
	if err != nil {
		return nil, "", "", err
	}
	doc := uc.document(sess.draft.Snapshot())
	out, err := renderer.Render(ctx, doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("exportar %s: %w", format, err)
	}
	return out, renderer.ContentType(), fileName(doc.WorkName) + renderer.Extension(), nil
}

func (uc *UseCase) document(snap engine.Snapshot) Document {
	doc := Document{
		Title:    DocumentTitle,
		WorkName: snap.WorkName,
		IssuedAt: uc.now(),
		Totals:   snap.Totals.WithTax(uc.taxRate),
	}
	if snap.Customer != nil {
		doc.CustomerName = snap.Customer.Name
		doc.CustomerAddress = snap.Customer.Address
	}
	for s := range engine.Sections(snap.Lines) {
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

// fileName "orcamento-reforma-joao" a partir del nombre de la obra.
func fileName(workName string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripAccents, workName)
	if err != nil {
		plain = workName
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(plain)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		return "orcamento"
	}
	return "orcamento-" + name
}

// ── Vista ────────────────────────────────────────────────────────────────────

func (uc *UseCase) view(draft *engine.Draft) *dto.DraftResponse {
	snap := draft.Snapshot()
	out := &dto.DraftResponse{
		ID:          snap.DraftID,
		State:       string(draft.State()),
		SaleID:      snap.SaleID,
		WorkName:    snap.WorkName,
		Finalized:   snap.Finalized,
		FinalizedAt: snap.FinalizedAt,
		Lines:       make([]dto.LineResponse, 0, len(snap.Lines)),
		Sections:    []dto.SectionResponse{},
	}
	if snap.Customer != nil {
		out.Customer = &dto.DraftCustomer{ID: snap.Customer.ID, Name: snap.Customer.Name, Address: snap.Customer.Address}
	}
	for i, l := range snap.Lines {
		out.Lines = append(out.Lines, lineResponse(i, l))
	}

	// Index en las secciones apunta a la posición en la lista completa.
	next := map[engine.Kind]int{}
	nextIndex := func(kind engine.Kind) int {
		for i := next[kind]; i < len(snap.Lines); i++ {
			if snap.Lines[i].Kind == kind {
				next[kind] = i + 1
				return i
			}
		}
		return -1
	}
	for s := range engine.Sections(snap.Lines) {
		sec := dto.SectionResponse{Title: s.Title, Kind: string(s.Kind), Lines: make([]dto.LineResponse, 0, len(s.Lines))}
		for _, l := range s.Lines {
			sec.Lines = append(sec.Lines, lineResponse(nextIndex(s.Kind), l))
		}
		out.Sections = append(out.Sections, sec)
	}

	doc := snap.Totals.WithTax(uc.taxRate)
	out.Totals = dto.TotalsResponse{
		ServicesTotal: doc.ServicesTotal,
		ProductsTotal: doc.ProductsTotal,
		GrandTotal:    doc.GrandTotal,
		TaxRate:       doc.TaxRate,
		Tax:           doc.Tax,
		DocumentTotal: doc.DocumentTotal,
		Formatted: dto.FormattedTotals{
			ServicesTotal: uc.money.Format(doc.ServicesTotal),
			ProductsTotal: uc.money.Format(doc.ProductsTotal),
			GrandTotal:    uc.money.Format(doc.GrandTotal),
			Tax:           uc.money.Format(doc.Tax),
			DocumentTotal: uc.money.Format(doc.DocumentTotal),
		},
	}
	return out
}

func lineResponse(index int, l engine.LineItem) dto.LineResponse {
	return dto.LineResponse{
		Index:                 index,
		ID:                    l.ID,
		Kind:                  string(l.Kind),
		Description:           l.Description,
		Unit:                  l.Unit,
		Quantity:              l.Quantity,
		UnitPrice:             l.UnitPrice,
		Subtotal:              l.Subtotal,
		ParentServiceID:       l.ParentServiceID,
		BaseQuantityPerParent: l.BaseQuantityPerParent,
	}
}
