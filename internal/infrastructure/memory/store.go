// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORE_BACKEND=memory; las transacciones se serializan
// con un único lock de escritura y se revierten con un journal de deshacer.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store almacén en memoria de todas las entidades.
type Store struct {
	mu sync.RWMutex

	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	locations  map[string]*entity.Location
	partners   map[string]*entity.Partner
	rules      map[string]*entity.ReorderRule

	documents map[string]*entity.Document
	docOrder  []string
	lines     map[string][]*entity.DocumentLine

	entries  []*entity.LedgerEntry
	balances map[entity.BalanceKey]*entity.Balance
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
		locations:  make(map[string]*entity.Location),
		partners:   make(map[string]*entity.Partner),
		rules:      make(map[string]*entity.ReorderRule),
		documents:  make(map[string]*entity.Document),
		lines:      make(map[string][]*entity.DocumentLine),
		balances:   make(map[entity.BalanceKey]*entity.Balance),
	}
}

// Run ejecuta fn con repos transaccionales. Los repos de nivel Store no deben
// usarse dentro de fn: el lock de escritura ya está tomado.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &memTx{}
	if err := fn(ctx, txRepos{scope{s: s, tx: t}}); err != nil {
		t.rollback()
		return err
	}
	return nil
}

func (s *Store) Products() repository.ProductRepository     { return productRepo{scope{s: s}} }
func (s *Store) Warehouses() repository.WarehouseRepository { return warehouseRepo{scope{s: s}} }
func (s *Store) Locations() repository.LocationRepository   { return locationRepo{scope{s: s}} }
func (s *Store) Partners() repository.PartnerRepository     { return partnerRepo{scope{s: s}} }
func (s *Store) ReorderRules() repository.ReorderRuleRepository {
	return ruleRepo{scope{s: s}}
}
func (s *Store) Documents() repository.DocumentRepository { return documentRepo{scope{s: s}} }
func (s *Store) Ledger() repository.LedgerRepository      { return ledgerRepo{scope{s: s}} }
func (s *Store) Balances() repository.BalanceReader       { return balanceRepo{scope{s: s}} }

type memTx struct {
	undo []func()
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// scope decide si un repo toma el lock (uso directo) o corre bajo Run (tx != nil).
type scope struct {
	s  *Store
	tx *memTx
}

func (sc scope) rlock() func() {
	if sc.tx != nil {
		return func() {}
	}
	sc.s.mu.RLock()
	return sc.s.mu.RUnlock
}

func (sc scope) lock() func() {
	if sc.tx != nil {
		return func() {}
	}
	sc.s.mu.Lock()
	return sc.s.mu.Unlock
}

// onRollback registra cómo deshacer la última mutación.
func (sc scope) onRollback(fn func()) {
	if sc.tx != nil {
		sc.tx.undo = append(sc.tx.undo, fn)
	}
}

type txRepos struct {
	sc scope
}

func (t txRepos) Documents() repository.DocumentRepository { return documentRepo{t.sc} }
func (t txRepos) Ledger() repository.LedgerRepository      { return ledgerRepo{t.sc} }
func (t txRepos) Balances() repository.BalanceStore        { return balanceRepo{t.sc} }
