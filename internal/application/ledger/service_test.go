package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var keyA = entity.BalanceKey{ProductID: "p1", WarehouseID: "w1", LocationID: "l1"}

func newService(t *testing.T) (*ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := ledger.NewService(store, store.Ledger(), store.Balances(), nil, zerolog.Nop())
	return svc, store
}

func move(mt entity.MovementType, qty int64) ledger.Movement {
	return ledger.Movement{Key: keyA, MovementType: mt, Quantity: qty, DocumentType: entity.DocumentAdjustment, DocumentID: "d1"}
}

type recorder struct {
	mu   sync.Mutex
	keys []entity.BalanceKey
}

func (r *recorder) BalancesChanged(_ context.Context, keys []entity.BalanceKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

func TestGetBalance_SinMovimientosEsCero(t *testing.T) {
	svc, _ := newService(t)
	qty, err := svc.GetBalance(context.Background(), keyA)
	require.NoError(t, err)
	assert.Zero(t, qty)

	_, err = svc.GetBalance(context.Background(), entity.BalanceKey{ProductID: "p1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostMovement_SaldoEsSumaDelLibro(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	rec := &recorder{}
	svc.Subscribe(rec)

	steps := []ledger.Movement{
		move(entity.MovementIn, 100),
		move(entity.MovementOut, 30),
		move(entity.MovementTransferIn, 5),
		move(entity.MovementAdjustmentNeg, 25),
	}
	for _, m := range steps {
		_, err := svc.PostMovement(ctx, "u1", m)
		require.NoError(t, err)
	}

	qty, err := svc.GetBalance(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, int64(50), qty)

	entries, total, err := svc.History(ctx, repository.LedgerFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	var sum int64
	for _, e := range entries {
		sum += e.SignedQuantity()
		assert.Equal(t, "u1", e.CreatedBy)
	}
	assert.Equal(t, qty, sum)

	d, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, d)
	assert.Len(t, rec.keys, 4)
}

func TestPostMovement_RechazaSalidaSinStock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.PostMovement(ctx, "u1", move(entity.MovementIn, 10))
	require.NoError(t, err)

	_, err = svc.PostMovement(ctx, "u1", move(entity.MovementOut, 11))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, _ := svc.GetBalance(ctx, keyA)
	assert.Equal(t, int64(10), qty)
	_, total, _ := svc.History(ctx, repository.LedgerFilter{})
	assert.Equal(t, 1, total, "el asiento rechazado no queda en el libro")
}

func TestPostMovement_ValidaEntrada(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, m := range []ledger.Movement{
		move(entity.MovementIn, 0),
		move(entity.MovementIn, -4),
		move(entity.MovementIn, entity.MaxQuantity+1),
		move(entity.MovementType("X"), 1),
		{Key: entity.BalanceKey{ProductID: "p"}, MovementType: entity.MovementIn, Quantity: 1},
	} {
		_, err := svc.PostMovement(ctx, "u1", m)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestPostInTx_DisponibilidadAgregadaPorClave(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	_, err := svc.PostMovement(ctx, "u1", move(entity.MovementIn, 10))
	require.NoError(t, err)

	err = store.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		_, err := svc.PostInTx(ctx, tx, "u1", []ledger.Movement{
			move(entity.MovementOut, 6),
			move(entity.MovementOut, 6),
		})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, _ := svc.GetBalance(ctx, keyA)
	assert.Equal(t, int64(10), qty)
}

func TestPostInTx_RollbackDeshaceTodo(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	boom := errors.New("falla posterior")

	err := store.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		if _, err := svc.PostInTx(ctx, tx, "u1", []ledger.Movement{move(entity.MovementIn, 7)}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	qty, _ := svc.GetBalance(ctx, keyA)
	assert.Zero(t, qty)
	_, total, _ := svc.History(ctx, repository.LedgerFilter{})
	assert.Zero(t, total)
}

func TestPostMovement_ConcurrenciaNuncaNegativo(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.PostMovement(ctx, "u1", move(entity.MovementIn, 100))
	require.NoError(t, err)

	var mu sync.Mutex
	okCount, failCount := 0, 0
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := svc.PostMovement(ctx, "u1", move(entity.MovementOut, 10))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okCount++
			case errors.Is(err, domain.ErrInsufficientStock):
				failCount++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 10, okCount)
	assert.Equal(t, 10, failCount)
	qty, _ := svc.GetBalance(ctx, keyA)
	assert.Zero(t, qty)
}

func TestHistory_RangoInvalido(t *testing.T) {
	svc, _ := newService(t)
	from := mustTime(t, "2024-02-01T00:00:00Z")
	to := mustTime(t, "2024-01-01T00:00:00Z")
	_, _, err := svc.History(context.Background(), repository.LedgerFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
