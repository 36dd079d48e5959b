package entity

import "time"

// BalanceKey identifica una posición de stock: producto en una ubicación de una bodega.
type BalanceKey struct {
	ProductID   string
	WarehouseID string
	LocationID  string
}

// String forma canónica usada para ordenar locks.
func (k BalanceKey) String() string {
	return k.ProductID + "|" + k.WarehouseID + "|" + k.LocationID
}

// Complete indica si los tres componentes están presentes.
func (k BalanceKey) Complete() bool {
	return k.ProductID != "" && k.WarehouseID != "" && k.LocationID != ""
}

// Balance saldo materializado para una clave. Se deriva del libro y nunca es negativo.
type Balance struct {
	BalanceKey
	QuantityOnHand int64
	UpdatedAt      time.Time
}
