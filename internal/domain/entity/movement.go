package entity

// MovementType dirección de un asiento del libro de stock.
type MovementType string

const (
	MovementIn            MovementType = "IN"
	MovementOut           MovementType = "OUT"
	MovementTransferIn    MovementType = "TRANSFER_IN"
	MovementTransferOut   MovementType = "TRANSFER_OUT"
	MovementAdjustmentPos MovementType = "ADJUSTMENT_POS"
	MovementAdjustmentNeg MovementType = "ADJUSTMENT_NEG"
)

// MaxQuantity tope de cantidad por línea o asiento.
const MaxQuantity int64 = 1_000_000_000_000

// Sign devuelve +1 para tipos que suman stock, -1 para los que restan y 0 si el tipo es desconocido.
func (m MovementType) Sign() int64 {
	switch m {
	case MovementIn, MovementTransferIn, MovementAdjustmentPos:
		return 1
	case MovementOut, MovementTransferOut, MovementAdjustmentNeg:
		return -1
	default:
		return 0
	}
}

// Valid indica si el tipo pertenece al conjunto conocido.
func (m MovementType) Valid() bool {
	return m.Sign() != 0
}

// IsRemoval indica si el movimiento descuenta stock.
func (m MovementType) IsRemoval() bool {
	return m.Sign() < 0
}

// DocumentType tipo de documento de inventario que origina movimientos.
type DocumentType string

const (
	DocumentReceipt    DocumentType = "RECEIPT"
	DocumentDelivery   DocumentType = "DELIVERY"
	DocumentTransfer   DocumentType = "INTERNAL_TRANSFER"
	DocumentAdjustment DocumentType = "ADJUSTMENT"
)

// Valid indica si el tipo pertenece al conjunto conocido.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentReceipt, DocumentDelivery, DocumentTransfer, DocumentAdjustment:
		return true
	}
	return false
}
