package quote_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orcamentos-api/internal/application/dto"
	"github.com/jhoicas/Orcamentos-api/internal/application/quote"
	"github.com/jhoicas/Orcamentos-api/internal/domain"
	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
	"github.com/jhoicas/Orcamentos-api/pkg/logger"
)

const company = "c-1"

type fixture struct {
	uc        *quote.UseCase
	catalog   *fakeCatalogRepo
	sales     *fakeSaleRepo
	tx        *fakeTx
	renderer  *fakeRenderer
	customers *fakeCustomerRepo
	store     *quote.DraftStore
	logOutput *bytes.Buffer
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := &fakeCatalogRepo{
		products: []*entity.Product{
			{ID: "p-1", CompanyID: company, Description: "Argamassa", Price: decimal.NewNullDecimal(dec("20")), Unit: "sc"},
			{ID: "p-2", CompanyID: company, Description: "Rejunte", Price: decimal.NewNullDecimal(dec("8.5")), Unit: "kg"},
		},
		services: []*entity.Service{
			{ID: "s-1", CompanyID: company, Description: "Assentamento de piso", Price: decimal.NewNullDecimal(dec("45")), Unit: "m²"},
		},
		composition: map[string][]*entity.CompositionEntry{
			"s-1": {
				{ParentID: "s-1", ComponentProductID: "p-1", BaseQuantityPerParent: dec("0.2")},
				{ParentID: "s-1", ComponentProductID: "p-2", BaseQuantityPerParent: dec("0.5")},
			},
		},
	}
	sales := newFakeSaleRepo()
	tx := &fakeTx{sales: sales, financial: &fakeFinancialRepo{sales: sales}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cli-1": {ID: "cli-1", CompanyID: company, Name: "Construtora Lima", Address: "Rua A, 10"},
	}}
	renderer := &fakeRenderer{}
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug")
	store := quote.NewDraftStore(time.Hour, log)
	uc := quote.NewUseCase(catalog, sales, customers, tx, store,
		map[string]quote.Renderer{"pdf": renderer},
		quote.Settings{TaxRate: dec("0.13"), Locale: "pt-BR"}, log)
	return &fixture{uc: uc, catalog: catalog, sales: sales, tx: tx, renderer: renderer, customers: customers, store: store, logOutput: &buf}
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

func TestAddService_ExpandeYPropaga(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{WorkName: "Reforma cozinha"})
	require.NoError(t, err)
	assert.Equal(t, "EDITING", draft.State, "definir el nombre de la obra ya es una edición")

	view, err := f.uc.AddService(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "s-1", Quantity: decPtr("10")})
	require.NoError(t, err)
	require.Len(t, view.Lines, 3)
	assert.True(t, view.Lines[1].Quantity.Equal(dec("2")))
	assert.True(t, view.Lines[2].Quantity.Equal(dec("5")))
	assert.Equal(t, "s-1", view.Lines[2].ParentServiceID)

	view, err = f.uc.SetQuantity(ctx, company, draft.ID, 0, dto.SetQuantityRequest{Quantity: "20"})
	require.NoError(t, err)
	assert.True(t, view.Lines[1].Quantity.Equal(dec("4")))
	assert.True(t, view.Lines[2].Quantity.Equal(dec("10")))

	assert.True(t, view.Totals.ServicesTotal.Equal(dec("900")))
	assert.True(t, view.Totals.ProductsTotal.Equal(dec("165")), "4×20 + 10×8.5")
	assert.True(t, view.Totals.Tax.Equal(dec("21.45")))
	assert.True(t, view.Totals.DocumentTotal.Equal(dec("1086.45")))
	assert.Equal(t, "R$ 1.086,45", view.Totals.Formatted.DocumentTotal)

	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Serviços", view.Sections[0].Title)
	assert.Equal(t, 0, view.Sections[0].Lines[0].Index)
	assert.Equal(t, 1, view.Sections[1].Lines[0].Index)
	assert.Equal(t, 2, view.Sections[1].Lines[1].Index)
}

func TestAddService_FalloDeComposicionRegistraWarn(t *testing.T) {
	f := newFixture(t)
	f.catalog.compositionErr = errBackend
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)

	view, err := f.uc.AddService(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "s-1"})

	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Lines[0].Quantity.Equal(dec("1")))
	assert.Contains(t, f.logOutput.String(), `"level":"warn"`)
	assert.Contains(t, f.logOutput.String(), `"service_id":"s-1"`)
}

func TestAddProduct_NoExisteEnCatalogo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)

	_, err = f.uc.AddProduct(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "p-404"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBorrador_DeOtraEmpresaNoSeEncuentra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)

	_, err = f.uc.GetDraft(ctx, "otra", draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDraft_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)
	missing := "cli-404"

	_, err = f.uc.UpdateDraft(ctx, company, draft.ID, dto.UpdateDraftRequest{CustomerID: &missing})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Commit
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_GuardaCabeceraEItemsConVinculos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := "cli-1"
	finalized := true
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{WorkName: "Casa"})
	require.NoError(t, err)
	_, err = f.uc.AddService(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "s-1", Quantity: decPtr("5")})
	require.NoError(t, err)
	_, err = f.uc.UpdateDraft(ctx, company, draft.ID, dto.UpdateDraftRequest{CustomerID: &customerID, Finalized: &finalized})
	require.NoError(t, err)

	res, err := f.uc.Commit(ctx, company, draft.ID)

	require.NoError(t, err)
	require.NotEmpty(t, res.SaleID)
	assert.Equal(t, 1, f.tx.runs, "cabecera e ítems en una sola transacción")
	sale := f.sales.sales[res.SaleID]
	require.NotNil(t, sale)
	assert.Equal(t, "Casa", sale.WorkName)
	assert.Equal(t, "cli-1", sale.CustomerID)
	assert.NotNil(t, sale.FinalizedAt)
	assert.True(t, sale.Total.Equal(dec("266.25")), "5×45 + 1×20 + 2.5×8.5")

	items := f.sales.items[res.SaleID]
	require.Len(t, items, 3)
	assert.Equal(t, entity.SaleItemService, items[0].Kind)
	assert.Equal(t, "s-1", items[0].ServiceID)
	assert.Equal(t, "s-1", items[1].ParentServiceID)
	assert.True(t, items[1].BaseQuantityPerParent.Valid)
	assert.True(t, items[1].BaseQuantityPerParent.Decimal.Equal(dec("0.2")))

	view, err := f.uc.GetDraft(ctx, company, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMMITTED", view.State)
	assert.Equal(t, res.SaleID, view.SaleID)
}

func TestCommit_FalloDePersistenciaPermiteReintentar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{WorkName: "Muro"})
	require.NoError(t, err)
	_, err = f.uc.AddProduct(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "p-1"})
	require.NoError(t, err)
	f.sales.createErr = errBackend

	_, err = f.uc.Commit(ctx, company, draft.ID)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	view, err := f.uc.GetDraft(ctx, company, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "EDITING", view.State)
	assert.Len(t, view.Lines, 1)

	f.sales.createErr = nil
	res, err := f.uc.Commit(ctx, company, draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SaleID)
}

func TestCommit_SinNombreDeObra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)
	_, err = f.uc.AddProduct(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "p-1"})
	require.NoError(t, err)

	_, err = f.uc.Commit(ctx, company, draft.ID)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.tx.runs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas existentes
// ──────────────────────────────────────────────────────────────────────────────

func seedSale(f *fixture) {
	now := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	f.sales.sales["v-1"] = &entity.Sale{ID: "v-1", CompanyID: company, CustomerID: "cli-1", CustomerName: "Construtora Lima",
		WorkName: "Galpão", Total: dec("100"), SaleDate: now}
	f.sales.items["v-1"] = []*entity.SaleItem{
		{ID: "i-1", SaleID: "v-1", Kind: entity.SaleItemService, ServiceID: "s-1", Quantity: dec("2"), UnitPrice: dec("45"), Position: 0},
		{ID: "i-2", SaleID: "v-1", Kind: entity.SaleItemProduct, ProductID: "p-1", Quantity: dec("0.4"), UnitPrice: dec("20"),
			ParentServiceID: "s-1", BaseQuantityPerParent: decimal.NewNullDecimal(dec("0.2")), Position: 1},
		{ID: "i-3", SaleID: "v-1", Kind: entity.SaleItemProduct, ProductID: "p-9", Quantity: decimal.Zero, UnitPrice: dec("3"), Position: 2},
	}
}

func TestOpenSale_RestauraLineasYPropagacion(t *testing.T) {
	f := newFixture(t)
	seedSale(f)
	ctx := context.Background()

	view, err := f.uc.OpenSale(ctx, company, "v-1")

	require.NoError(t, err)
	assert.Equal(t, "EDITING", view.State)
	assert.Equal(t, "v-1", view.SaleID)
	assert.Equal(t, "Galpão", view.WorkName)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "Rua A, 10", view.Customer.Address)
	require.Len(t, view.Lines, 3)
	assert.Equal(t, "Assentamento de piso", view.Lines[0].Description)
	assert.Equal(t, "Produto p-9", view.Lines[2].Description)
	assert.True(t, view.Lines[2].Quantity.Equal(dec("1")), "cantidad 0 se abre como 1")

	view, err = f.uc.SetQuantity(ctx, company, view.ID, 0, dto.SetQuantityRequest{Quantity: "5"})
	require.NoError(t, err)
	assert.True(t, view.Lines[1].Quantity.Equal(dec("1")))

	res, err := f.uc.Commit(ctx, company, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "v-1", res.SaleID)
	assert.Equal(t, []string{"sale.update", "items.delete", "items.insert"}, f.sales.calls)
	assert.Len(t, f.sales.items["v-1"], 3)
}

func TestOpenSale_ServicioEnCeroReabreDerivadosSegunProporcion(t *testing.T) {
	f := newFixture(t)
	seedSale(f)
	f.sales.items["v-1"][0].Quantity = decimal.Zero
	// Valor guardado con el redondeo de la columna.
	f.sales.items["v-1"][1].Quantity = dec("0.0001")

	view, err := f.uc.OpenSale(context.Background(), company, "v-1")

	require.NoError(t, err)
	assert.True(t, view.Lines[0].Quantity.Equal(dec("1")))
	assert.True(t, view.Lines[1].Quantity.Equal(dec("0.2")), "0.2 × 1, no %s", view.Lines[1].Quantity)
	assert.True(t, view.Lines[1].Subtotal.Equal(dec("4")))
}

func TestOpenSale_FalloDeClienteSeRegistraYAbreIgual(t *testing.T) {
	f := newFixture(t)
	seedSale(f)
	f.customers.err = fmt.Errorf("clientes: %w", domain.ErrLookup)

	view, err := f.uc.OpenSale(context.Background(), company, "v-1")

	require.NoError(t, err)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "Construtora Lima", view.Customer.Name)
	assert.Empty(t, view.Customer.Address)
	out := f.logOutput.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"sale_id":"v-1"`)
	assert.Contains(t, out, `"customer_id":"cli-1"`)
}

func TestOpenSale_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.OpenSale(context.Background(), company, "v-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSale_OrdenFinancieroItemsCabecera(t *testing.T) {
	f := newFixture(t)
	seedSale(f)

	err := f.uc.DeleteSale(context.Background(), company, "v-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"financial.delete", "items.delete", "sale.delete"}, f.sales.calls)
	assert.Empty(t, f.sales.sales)
}

func TestDeleteSale_FalloEnvuelveErrRemoval(t *testing.T) {
	f := newFixture(t)
	seedSale(f)
	f.sales.deleteErr = errBackend

	err := f.uc.DeleteSale(context.Background(), company, "v-1")

	assert.ErrorIs(t, err, domain.ErrRemoval)
	assert.ErrorIs(t, err, errBackend)
}

func TestDeleteSale_DeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	seedSale(f)

	err := f.uc.DeleteSale(context.Background(), "otra", "v-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.sales.calls)
}

func TestListSales_MasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	seedSale(f)
	f.sales.sales["v-2"] = &entity.Sale{ID: "v-2", CompanyID: company, WorkName: "Nova", SaleDate: time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)}

	list, err := f.uc.ListSales(context.Background(), company, dto.PageRequest{})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v-2", list[0].ID)
	assert.Equal(t, "Construtora Lima", list[1].CustomerName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación y descarte
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_DocumentoConImpuestoYSecciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := "cli-1"
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{WorkName: "Reforma Banheiro", CustomerID: customerID})
	require.NoError(t, err)
	_, err = f.uc.AddProduct(ctx, company, draft.ID, dto.AddItemRequest{CatalogID: "p-1", Quantity: decPtr("10")})
	require.NoError(t, err)

	out, contentType, name, err := f.uc.Export(ctx, company, draft.ID, "PDF")

	require.NoError(t, err)
	assert.Equal(t, []byte("doc"), out)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "orcamento-reforma-banheiro.pdf", name)
	doc := f.renderer.last
	require.NotNil(t, doc)
	assert.Equal(t, "Planilha de serviços", doc.Title)
	assert.Equal(t, "Construtora Lima", doc.CustomerName)
	require.Len(t, doc.Sections, 1)
	assert.True(t, doc.Totals.Tax.Equal(dec("26")))
	assert.True(t, doc.Totals.DocumentTotal.Equal(dec("226")))
}

func TestExport_FormatoDesconocido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)

	_, _, _, err = f.uc.Export(ctx, company, draft.ID, "docx")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDiscard_LiberaLaSesion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft, err := f.uc.NewDraft(ctx, company, dto.OpenDraftRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, f.store.Len())

	require.NoError(t, f.uc.Discard(ctx, company, draft.ID))

	assert.Equal(t, 0, f.store.Len())
	_, err = f.uc.GetDraft(ctx, company, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
