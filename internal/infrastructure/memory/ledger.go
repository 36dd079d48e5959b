package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.LedgerRepository = ledgerRepo{}
	_ repository.BalanceStore     = balanceRepo{}
)

type ledgerRepo struct{ sc scope }

func (r ledgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	defer r.sc.lock()()
	s := r.sc.s
	c := *e
	s.entries = append(s.entries, &c)
	r.sc.onRollback(func() { s.entries = s.entries[:len(s.entries)-1] })
	return nil
}

func (r ledgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, int, error) {
	defer r.sc.rlock()()
	out := make([]*entity.LedgerEntry, 0)
	entries := r.sc.s.entries
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !matchEntry(e, f) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	return paginate(out, f.Limit, f.Offset), total, nil
}

func matchEntry(e *entity.LedgerEntry, f repository.LedgerFilter) bool {
	switch {
	case f.ProductID != "" && e.ProductID != f.ProductID,
		f.WarehouseID != "" && e.WarehouseID != f.WarehouseID,
		f.LocationID != "" && e.LocationID != f.LocationID,
		f.DocumentType != "" && e.DocumentType != f.DocumentType,
		f.DocumentID != "" && e.DocumentID != f.DocumentID,
		f.MovementType != "" && e.MovementType != f.MovementType,
		f.From != nil && e.CreatedAt.Before(*f.From),
		f.To != nil && e.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func (r ledgerRepo) ListByDocument(_ context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	defer r.sc.rlock()()
	out := make([]*entity.LedgerEntry, 0)
	for _, e := range r.sc.s.entries {
		if e.DocumentID == documentID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r ledgerRepo) SumByKey(_ context.Context) (map[entity.BalanceKey]int64, error) {
	defer r.sc.rlock()()
	sums := make(map[entity.BalanceKey]int64)
	for _, e := range r.sc.s.entries {
		sums[e.Key()] += e.SignedQuantity()
	}
	return sums, nil
}

type balanceRepo struct{ sc scope }

func (r balanceRepo) Get(_ context.Context, key entity.BalanceKey) (int64, error) {
	defer r.sc.rlock()()
	if b, ok := r.sc.s.balances[key]; ok {
		return b.QuantityOnHand, nil
	}
	return 0, nil
}

func (r balanceRepo) List(_ context.Context, f repository.BalanceFilter) ([]entity.Balance, error) {
	defer r.sc.rlock()()
	out := make([]entity.Balance, 0)
	for k, b := range r.sc.s.balances {
		if f.ProductID != "" && k.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && k.WarehouseID != f.WarehouseID {
			continue
		}
		if f.LocationID != "" && k.LocationID != f.LocationID {
			continue
		}
		if f.OnlyInStock && b.QuantityOnHand <= 0 {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BalanceKey.String() < out[j].BalanceKey.String() })
	return out, nil
}

// LockForUpdate solo lee: la exclusión la da el lock de Run.
func (r balanceRepo) LockForUpdate(_ context.Context, keys []entity.BalanceKey) (map[entity.BalanceKey]int64, error) {
	defer r.sc.rlock()()
	out := make(map[entity.BalanceKey]int64, len(keys))
	for _, k := range keys {
		if b, ok := r.sc.s.balances[k]; ok {
			out[k] = b.QuantityOnHand
		} else {
			out[k] = 0
		}
	}
	return out, nil
}

func (r balanceRepo) ApplyDelta(_ context.Context, key entity.BalanceKey, delta int64) (int64, error) {
	defer r.sc.lock()()
	s := r.sc.s
	prev, existed := s.balances[key]
	var current int64
	if existed {
		current = prev.QuantityOnHand
	}
	next := current + delta
	if next < 0 {
		return current, fmt.Errorf("%w: saldo resultante %d para %s", domain.ErrInsufficientStock, next, key)
	}
	s.balances[key] = &entity.Balance{BalanceKey: key, QuantityOnHand: next, UpdatedAt: time.Now().UTC()}
	r.sc.onRollback(func() {
		if existed {
			s.balances[key] = prev
		} else {
			delete(s.balances, key)
		}
	})
	return next, nil
}
