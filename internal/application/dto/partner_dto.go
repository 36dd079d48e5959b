package dto

import "time"

// CreatePartnerRequest entrada para crear un proveedor o cliente.
type CreatePartnerRequest struct {
	Kind  string `json:"kind" validate:"required"`
	Code  string `json:"code" validate:"required,min=1,max=30"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

// PartnerResponse salida de un tercero.
type PartnerResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReorderRuleRequest regla de reposición; warehouse_id vacío = global.
type CreateReorderRuleRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id"`
	MinQuantity int64  `json:"min_quantity" validate:"min=0"`
	MaxQuantity int64  `json:"max_quantity" validate:"omitempty,gtefield=MinQuantity"`
}

// ReorderRuleResponse salida de una regla de reposición.
type ReorderRuleResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	MinQuantity int64     `json:"min_quantity"`
	MaxQuantity int64     `json:"max_quantity"`
	CreatedAt   time.Time `json:"created_at"`
}
