package entity

import "time"

// LedgerEntry asiento inmutable del libro de stock.
// Quantity siempre es positiva; el signo lo da MovementType.
type LedgerEntry struct {
	ID             string
	ProductID      string
	WarehouseID    string
	LocationID     string
	MovementType   MovementType
	Quantity       int64
	DocumentType   DocumentType
	DocumentID     string
	DocumentLineID string
	Note           string
	CreatedBy      string
	CreatedAt      time.Time
}

// Key devuelve la clave de saldo afectada por el asiento.
func (e *LedgerEntry) Key() BalanceKey {
	return BalanceKey{ProductID: e.ProductID, WarehouseID: e.WarehouseID, LocationID: e.LocationID}
}

// SignedQuantity cantidad con signo (+ entra, - sale).
func (e *LedgerEntry) SignedQuantity() int64 {
	return e.MovementType.Sign() * e.Quantity
}
