package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LedgerFilter filtros del historial de movimientos. Limit 0 = sin límite.
type LedgerFilter struct {
	ProductID    string
	WarehouseID  string
	LocationID   string
	DocumentType entity.DocumentType
	DocumentID   string
	MovementType entity.MovementType
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// LedgerRepository puerto del libro de stock: solo inserta y consulta, nunca modifica.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// List devuelve asientos ordenados por created_at desc y el total sin paginar.
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, int, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error)
	// SumByKey suma con signo todos los asientos agrupados por clave.
	SumByKey(ctx context.Context) (map[entity.BalanceKey]int64, error)
}
