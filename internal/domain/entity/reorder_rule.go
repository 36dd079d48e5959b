package entity

import "time"

// ReorderRule regla de reposición mínima/máxima por producto y bodega.
// WarehouseID vacío = regla global del producto.
type ReorderRule struct {
	ID          string
	ProductID   string
	WarehouseID string
	MinQuantity int64
	MaxQuantity int64 // 0 = sin máximo; se sugiere reponer hasta el mínimo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
