package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.LedgerRepository = (*LedgerRepo)(nil)
	_ repository.BalanceStore     = (*BalanceRepo)(nil)
)

// LedgerRepo libro de stock: solo INSERT y SELECT. Un trigger rechaza UPDATE/DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, product_id, warehouse_id, location_id, movement_type, quantity,
	document_type, document_id, document_line_id, note, created_by, created_at`

func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_ledger (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.ProductID, e.WarehouseID, e.LocationID, e.MovementType, e.Quantity,
		e.DocumentType, e.DocumentID, e.DocumentLineID, e.Note, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepo) scanAll(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.LedgerEntry, 0)
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.LocationID, &e.MovementType, &e.Quantity,
			&e.DocumentType, &e.DocumentID, &e.DocumentLineID, &e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// List más recientes primero, con el total sin paginar.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, int, error) {
	var w where
	if f.ProductID != "" {
		w.addID(`product_id = ?`, f.ProductID)
	}
	if f.WarehouseID != "" {
		w.addID(`warehouse_id = ?`, f.WarehouseID)
	}
	if f.LocationID != "" {
		w.addID(`location_id = ?`, f.LocationID)
	}
	if f.DocumentType != "" {
		w.add(`document_type = ?`, f.DocumentType)
	}
	if f.DocumentID != "" {
		w.addID(`document_id = ?`, f.DocumentID)
	}
	if f.MovementType != "" {
		w.add(`movement_type = ?`, f.MovementType)
	}
	if f.From != nil {
		w.add(`created_at >= ?`, *f.From)
	}
	if f.To != nil {
		w.add(`created_at <= ?`, *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_ledger`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger` + w.sql() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Limit, f.Offset)
	list, err := r.scanAll(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByDocument en orden de registro.
func (r *LedgerRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	if !validIDs(documentID) {
		return []*entity.LedgerEntry{}, nil
	}
	return r.scanAll(ctx, `SELECT `+ledgerColumns+` FROM stock_ledger WHERE document_id = $1 ORDER BY created_at, id`, documentID)
}

// SumByKey suma con signo por clave: IN/TRANSFER_IN/ADJUSTMENT_POS suman, el resto resta.
func (r *LedgerRepo) SumByKey(ctx context.Context) (map[entity.BalanceKey]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, warehouse_id, location_id,
			SUM(CASE WHEN movement_type IN ('IN', 'TRANSFER_IN', 'ADJUSTMENT_POS') THEN quantity ELSE -quantity END)
		FROM stock_ledger
		GROUP BY product_id, warehouse_id, location_id`)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.BalanceKey]int64)
	for rows.Next() {
		var k entity.BalanceKey
		var sum int64
		if err := rows.Scan(&k.ProductID, &k.WarehouseID, &k.LocationID, &sum); err != nil {
			return nil, fmt.Errorf("scan ledger sum: %w", err)
		}
		out[k] = sum
	}
	return out, rows.Err()
}

// BalanceRepo saldos materializados (inventory_balances). CHECK quantity_on_hand >= 0.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get 0 si la clave no tiene fila.
func (r *BalanceRepo) Get(ctx context.Context, k entity.BalanceKey) (int64, error) {
	if !validIDs(k.ProductID, k.WarehouseID, k.LocationID) {
		return 0, nil
	}
	var qty int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE((SELECT quantity_on_hand FROM inventory_balances
			WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3), 0)`,
		k.ProductID, k.WarehouseID, k.LocationID,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return qty, nil
}

func (r *BalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]entity.Balance, error) {
	var w where
	if f.ProductID != "" {
		w.addID(`product_id = ?`, f.ProductID)
	}
	if f.WarehouseID != "" {
		w.addID(`warehouse_id = ?`, f.WarehouseID)
	}
	if f.LocationID != "" {
		w.addID(`location_id = ?`, f.LocationID)
	}
	if f.OnlyInStock {
		w.add(`quantity_on_hand > ?`, 0)
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, warehouse_id, location_id, quantity_on_hand, updated_at
		FROM inventory_balances`+w.sql()+`
		ORDER BY product_id, warehouse_id, location_id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Balance, 0)
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.LocationID, &b.QuantityOnHand, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// LockForUpdate crea con 0 las filas faltantes y las bloquea en el orden recibido
// (el caller las ordena), de modo que dos procesos nunca se crucen.
func (r *BalanceRepo) LockForUpdate(ctx context.Context, keys []entity.BalanceKey) (map[entity.BalanceKey]int64, error) {
	out := make(map[entity.BalanceKey]int64, len(keys))
	for _, k := range keys {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO inventory_balances (product_id, warehouse_id, location_id, quantity_on_hand, updated_at)
			VALUES ($1, $2, $3, 0, now())
			ON CONFLICT (product_id, warehouse_id, location_id) DO NOTHING`,
			k.ProductID, k.WarehouseID, k.LocationID,
		); err != nil {
			return nil, fmt.Errorf("seed balance: %w", err)
		}
		var qty int64
		if err := r.q.QueryRow(ctx, `
			SELECT quantity_on_hand FROM inventory_balances
			WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3
			FOR UPDATE`,
			k.ProductID, k.WarehouseID, k.LocationID,
		).Scan(&qty); err != nil {
			return nil, fmt.Errorf("lock balance: %w", err)
		}
		out[k] = qty
	}
	return out, nil
}

// ApplyDelta suma delta sobre la fila existente. Un resultado negativo viola el
// CHECK → ErrInsufficientStock. Sin fila previa sólo se aceptan deltas positivos.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, k entity.BalanceKey, delta int64) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		UPDATE inventory_balances
		SET quantity_on_hand = quantity_on_hand + $4, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3
		RETURNING quantity_on_hand`,
		k.ProductID, k.WarehouseID, k.LocationID, delta,
	).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if isCheckViolation(err) {
		return 0, fmt.Errorf("%w: saldo negativo para %s", domain.ErrInsufficientStock, k)
	}
	if hasCode(err, "22003") {
		return 0, fmt.Errorf("%w: saldo fuera de rango para %s", domain.ErrValidation, k)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("apply balance delta: %w", err)
	}
	if delta < 0 {
		return 0, fmt.Errorf("%w: saldo negativo para %s", domain.ErrInsufficientStock, k)
	}
	// el delta ya es positivo: el CHECK de la fila propuesta no puede fallar
	err = r.q.QueryRow(ctx, `
		INSERT INTO inventory_balances (product_id, warehouse_id, location_id, quantity_on_hand, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id, location_id)
		DO UPDATE SET quantity_on_hand = inventory_balances.quantity_on_hand + EXCLUDED.quantity_on_hand,
			updated_at = now()
		RETURNING quantity_on_hand`,
		k.ProductID, k.WarehouseID, k.LocationID, delta,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("insert balance: %w", err)
	}
	return qty, nil
}
