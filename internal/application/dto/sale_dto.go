package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleResponse venta (orçamento guardado) en listados.
type SaleResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	WorkName     string          `json:"work_name"`
	Total        decimal.Decimal `json:"total"`
	SaleDate     time.Time       `json:"sale_date"`
	FinalizedAt  *time.Time      `json:"finalized_at,omitempty"`
}
