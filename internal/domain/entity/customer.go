package entity

import "time"

// Customer representa un cliente de la empresa (razón social del orçamento).
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // CPF o CNPJ
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
