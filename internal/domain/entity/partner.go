package entity

import "time"

// PartnerKind distingue proveedores de clientes.
type PartnerKind string

const (
	PartnerSupplier PartnerKind = "SUPPLIER"
	PartnerCustomer PartnerKind = "CUSTOMER"
)

// Partner proveedor o cliente referenciado por recepciones y entregas.
type Partner struct {
	ID        string
	Kind      PartnerKind
	Code      string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
