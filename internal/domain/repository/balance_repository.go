package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceFilter filtros para listar saldos. Campos vacíos no filtran.
type BalanceFilter struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	OnlyInStock bool // quantity_on_hand > 0
}

// BalanceReader lectura de saldos materializados. Una clave sin fila vale 0.
type BalanceReader interface {
	Get(ctx context.Context, key entity.BalanceKey) (int64, error)
	List(ctx context.Context, filter BalanceFilter) ([]entity.Balance, error)
}

// BalanceStore puerto de escritura de saldos. Solo el servicio de libro lo usa:
// ApplyDelta es la única mutación y siempre acompaña a un asiento en la misma tx.
type BalanceStore interface {
	BalanceReader
	// LockForUpdate bloquea las claves (en el orden recibido) y devuelve su saldo actual.
	LockForUpdate(ctx context.Context, keys []entity.BalanceKey) (map[entity.BalanceKey]int64, error)
	// ApplyDelta crea la fila si falta, suma delta y devuelve el saldo resultante.
	ApplyDelta(ctx context.Context, key entity.BalanceKey, delta int64) (int64, error)
}
