package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OpenDraftRequest body opcional para POST /api/quotes (nuevo orçamento).
type OpenDraftRequest struct {
	WorkName   string `json:"work_name,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

// AddItemRequest body para agregar un producto o servicio al borrador.
// Quantity vacío equivale a 1.
type AddItemRequest struct {
	CatalogID string           `json:"catalog_id"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
}

// SetQuantityRequest cantidad tal como la tecleó el usuario ("2,5", "3") o como número JSON (3, 2.5).
type SetQuantityRequest struct {
	Quantity QuantityText `json:"quantity"`
}

// QuantityText texto de cantidad; en JSON acepta string o número.
type QuantityText string

// UnmarshalJSON acepta "2,5", 2.5 y null (texto vacío).
func (q *QuantityText) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*q = ""
		return nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*q = QuantityText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("quantity: se esperaba número o texto: %w", err)
	}
	*q = QuantityText(n.String())
	return nil
}

// UpdateDraftRequest cambios de cabecera; solo se aplican los campos presentes.
// CustomerID "" limpia el cliente.
type UpdateDraftRequest struct {
	WorkName   *string `json:"work_name,omitempty"`
	CustomerID *string `json:"customer_id,omitempty"`
	Finalized  *bool   `json:"finalized,omitempty"`
}

// LineResponse una línea del borrador. Index es la posición usada por las operaciones de edición.
type LineResponse struct {
	Index                 int              `json:"index"`
	ID                    string           `json:"id"`
	Kind                  string           `json:"kind"`
	Description           string           `json:"description"`
	Unit                  string           `json:"unit,omitempty"`
	Quantity              decimal.Decimal  `json:"quantity"`
	UnitPrice             decimal.Decimal  `json:"unit_price"`
	Subtotal              decimal.Decimal  `json:"subtotal"`
	ParentServiceID       string           `json:"parent_service_id,omitempty"`
	BaseQuantityPerParent *decimal.Decimal `json:"base_qty_per_parent,omitempty"`
}

// SectionResponse grupo de líneas ("Serviços" / "Produtos").
type SectionResponse struct {
	Title string         `json:"title"`
	Kind  string         `json:"kind"`
	Lines []LineResponse `json:"lines"`
}

// TotalsResponse totales del borrador más los del documento (impuesto sobre productos).
type TotalsResponse struct {
	ServicesTotal decimal.Decimal `json:"services_total"`
	ProductsTotal decimal.Decimal `json:"products_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
	DocumentTotal decimal.Decimal `json:"document_total"`
	Formatted     FormattedTotals `json:"formatted"`
}

// FormattedTotals totales formateados en la moneda/locale configurados.
type FormattedTotals struct {
	ServicesTotal string `json:"services_total"`
	ProductsTotal string `json:"products_total"`
	GrandTotal    string `json:"grand_total"`
	Tax           string `json:"tax"`
	DocumentTotal string `json:"document_total"`
}

// DraftCustomer cliente seleccionado en el borrador.
type DraftCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// DraftResponse vista completa del borrador.
type DraftResponse struct {
	ID          string            `json:"id"`
	State       string            `json:"state"`
	SaleID      string            `json:"sale_id,omitempty"`
	WorkName    string            `json:"work_name"`
	Customer    *DraftCustomer    `json:"customer,omitempty"`
	Finalized   bool              `json:"finalized"`
	FinalizedAt *time.Time        `json:"finalized_at,omitempty"`
	Lines       []LineResponse    `json:"lines"`
	Sections    []SectionResponse `json:"sections"`
	Totals      TotalsResponse    `json:"totals"`
}

// CommitResponse resultado de guardar el borrador.
type CommitResponse struct {
	SaleID string `json:"sale_id"`
}
