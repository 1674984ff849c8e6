package quote

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orcamentos-api/internal/domain/entity"
)

// CatalogRef referencia a un ítem de catálogo tal como se agrega al orçamento.
// Price nulo equivale a 0.
type CatalogRef struct {
	ID          string
	Description string
	Unit        string
	Price       decimal.NullDecimal
}

func (r CatalogRef) price() decimal.Decimal {
	if r.Price.Valid {
		return r.Price.Decimal
	}
	return decimal.Zero
}

// Catalog instantánea de solo lectura del catálogo de la empresa. Se construye una vez
// por sesión de edición y se pasa explícitamente a AddService para resolver los
// componentes de la lista de materiales.
type Catalog struct {
	products     []CatalogRef
	services     []CatalogRef
	productsByID map[string]CatalogRef
	servicesByID map[string]CatalogRef
}

// NewCatalog construye la instantánea conservando el orden recibido.
func NewCatalog(products []*entity.Product, services []*entity.Service) *Catalog {
	c := &Catalog{
		products:     make([]CatalogRef, 0, len(products)),
		services:     make([]CatalogRef, 0, len(services)),
		productsByID: make(map[string]CatalogRef, len(products)),
		servicesByID: make(map[string]CatalogRef, len(services)),
	}
	for _, p := range products {
		ref := ProductRef(p)
		c.products = append(c.products, ref)
		c.productsByID[ref.ID] = ref
	}
	for _, s := range services {
		ref := ServiceRef(s)
		c.services = append(c.services, ref)
		c.servicesByID[ref.ID] = ref
	}
	return c
}

// ProductRef convierte un producto de catálogo en referencia.
func ProductRef(p *entity.Product) CatalogRef {
	return CatalogRef{ID: p.ID, Description: p.Description, Unit: p.Unit, Price: p.Price}
}

// ServiceRef convierte un servicio de catálogo en referencia.
func ServiceRef(s *entity.Service) CatalogRef {
	return CatalogRef{ID: s.ID, Description: s.Description, Unit: s.Unit, Price: s.Price}
}

// Product busca un producto por id.
func (c *Catalog) Product(id string) (CatalogRef, bool) {
	if c == nil {
		return CatalogRef{}, false
	}
	ref, ok := c.productsByID[id]
	return ref, ok
}

// Service busca un servicio por id.
func (c *Catalog) Service(id string) (CatalogRef, bool) {
	if c == nil {
		return CatalogRef{}, false
	}
	ref, ok := c.servicesByID[id]
	return ref, ok
}

// Products devuelve los productos que contienen query en la descripción (sin distinguir
// mayúsculas). Query vacío devuelve todos.
func (c *Catalog) Products(query string) []CatalogRef {
	return filterRefs(c.products, query)
}

// Services igual que Products, para servicios.
func (c *Catalog) Services(query string) []CatalogRef {
	return filterRefs(c.services, query)
}

func filterRefs(refs []CatalogRef, query string) []CatalogRef {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]CatalogRef, 0, len(refs))
	for _, r := range refs {
		if q == "" || strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}
