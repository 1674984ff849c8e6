package quote_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/Orcamentos-api/internal/application/quote"
	"github.com/jhoicas/Orcamentos-api/internal/domain"
	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
	"github.com/jhoicas/Orcamentos-api/internal/domain/repository"
)

// ── Catálogo ──────────────────────────────────────────────────────────────────

type fakeCatalogRepo struct {
	products       []*entity.Product
	services       []*entity.Service
	composition    map[string][]*entity.CompositionEntry
	compositionErr error
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, _ string) ([]*entity.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogRepo) ListServices(_ context.Context, _ string) ([]*entity.Service, error) {
	return f.services, nil
}

func (f *fakeCatalogRepo) GetProduct(_ context.Context, _, id string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetService(_ context.Context, _, id string) (*entity.Service, error) {
	for _, s := range f.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetComposition(_ context.Context, serviceID string) ([]*entity.CompositionEntry, error) {
	if f.compositionErr != nil {
		return nil, f.compositionErr
	}
	return f.composition[serviceID], nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	mu        sync.Mutex
	sales     map[string]*entity.Sale
	items     map[string][]*entity.SaleItem
	createErr error
	deleteErr error
	calls     []string
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[string]*entity.Sale{}, items: map[string][]*entity.SaleItem{}}
}

func (f *fakeSaleRepo) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("sale.create")
	if f.createErr != nil {
		return f.createErr
	}
	cp := *sale
	f.sales[sale.ID] = &cp
	return nil
}

func (f *fakeSaleRepo) UpdateHeader(_ context.Context, sale *entity.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("sale.update")
	existing, ok := f.sales[sale.ID]
	if !ok || existing.CompanyID != sale.CompanyID {
		return domain.ErrNotFound
	}
	existing.CustomerID = sale.CustomerID
	existing.WorkName = sale.WorkName
	existing.Total = sale.Total
	existing.FinalizedAt = sale.FinalizedAt
	return nil
}

func (f *fakeSaleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sales[id]
	if !ok || s.CompanyID != companyID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSaleRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*entity.Sale
	for _, s := range f.sales {
		if s.CompanyID == companyID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SaleDate.After(list[j].SaleDate) })
	if offset > len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeSaleRepo) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[saleID], nil
}

func (f *fakeSaleRepo) DeleteItems(_ context.Context, saleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("items.delete")
	delete(f.items, saleID)
	return nil
}

func (f *fakeSaleRepo) InsertItems(_ context.Context, items []*entity.SaleItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("items.insert")
	for _, it := range items {
		f.items[it.SaleID] = append(f.items[it.SaleID], it)
	}
	return nil
}

func (f *fakeSaleRepo) Delete(_ context.Context, companyID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("sale.delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	s, ok := f.sales[id]
	if !ok || s.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(f.sales, id)
	return nil
}

type fakeFinancialRepo struct {
	sales *fakeSaleRepo
}

func (f *fakeFinancialRepo) DeleteBySale(_ context.Context, _ string) error {
	f.sales.record("financial.delete")
	return nil
}

// fakeTx ejecuta fn sobre los mismos fakes (sin rollback real).
type fakeTx struct {
	sales     *fakeSaleRepo
	financial *fakeFinancialRepo
	runs      int
}

var _ quote.SaleTxRunner = (*fakeTx)(nil)

func (f *fakeTx) RunSale(_ context.Context, fn func(repository.SaleRepository, repository.FinancialRepository) error) error {
	f.runs++
	return fn(f.sales, f.financial)
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
	err       error
}

func (f *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetByCompanyAndTaxID(_ context.Context, _, _ string) (*entity.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.Customer, error) {
	return nil, nil
}

// ── Renderer ──────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	last *quote.Document
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, doc quote.Document) ([]byte, error) {
	f.last = &doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte("doc"), nil
}

func (f *fakeRenderer) ContentType() string { return "application/pdf" }
func (f *fakeRenderer) Extension() string   { return ".pdf" }

var errBackend = errors.New("backend caído")
