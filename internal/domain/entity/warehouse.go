package entity

import "time"

// Warehouse bodega física.
type Warehouse struct {
	ID        string
	Code      string // único
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location ubicación dentro de una bodega (estante, pasillo, zona).
// ParentID forma un árbol dentro de la misma bodega.
type Location struct {
	ID          string
	WarehouseID string
	ParentID    string
	Code        string // único por bodega
	Name        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
