// Package ledger registra movimientos de stock en el libro y mantiene los saldos.
// Es el único escritor de saldos: cada asiento y su delta se aplican en la misma transacción.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Movement solicitud de asiento. Quantity debe ser positiva; el signo sale de MovementType.
type Movement struct {
	Key            entity.BalanceKey
	MovementType   entity.MovementType
	Quantity       int64
	DocumentType   entity.DocumentType
	DocumentID     string
	DocumentLineID string
	Note           string
}

// ChangeListener recibe las claves cuyo saldo cambió tras un commit.
type ChangeListener interface {
	BalancesChanged(ctx context.Context, keys []entity.BalanceKey)
}

// Discrepancy saldo materializado que no coincide con la suma del libro.
type Discrepancy struct {
	Key     entity.BalanceKey
	Ledger  int64
	Balance int64
}

// Service servicio del libro de stock.
type Service struct {
	txRunner  repository.TxRunner
	entries   repository.LedgerRepository
	balances  repository.BalanceReader
	locker    *KeyLocker
	listeners []ChangeListener
	log       zerolog.Logger
	now       func() time.Time
}

// NewService construye el servicio. locker puede compartirse con otros casos de uso.
func NewService(
	txRunner repository.TxRunner,
	entries repository.LedgerRepository,
	balances repository.BalanceReader,
	locker *KeyLocker,
	log zerolog.Logger,
) *Service {
	if locker == nil {
		locker = NewKeyLocker()
	}
	return &Service{
		txRunner: txRunner,
		entries:  entries,
		balances: balances,
		locker:   locker,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe registra un listener de cambios de saldo (p. ej. invalidación de caché).
func (s *Service) Subscribe(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Locker devuelve el locker compartido.
func (s *Service) Locker() *KeyLocker {
	return s.locker
}

// BalanceLockKey clave de lock de una posición de stock.
func BalanceLockKey(k entity.BalanceKey) string {
	return "bal:" + k.String()
}

// LockBalances bloquea en orden las claves de saldo. El caller debe liberar con la función devuelta.
func (s *Service) LockBalances(keys []entity.BalanceKey) (unlock func()) {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, BalanceLockKey(k))
	}
	return s.locker.Lock(names...)
}

// PostMovement registra un único asiento en su propia transacción.
func (s *Service) PostMovement(ctx context.Context, actorID string, m Movement) (*entity.LedgerEntry, error) {
	if err := validateMovement(m); err != nil {
		return nil, err
	}
	unlock := s.LockBalances([]entity.BalanceKey{m.Key})
	defer unlock()

	var posted []*entity.LedgerEntry
	err := s.txRunner.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		var err error
		posted, err = s.PostInTx(ctx, tx, actorID, []Movement{m})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Notify(ctx, []entity.BalanceKey{m.Key})
	return posted[0], nil
}

// PostInTx registra varios asientos dentro de una tx del caller, que debe tener
// bloqueadas las claves afectadas (LockBalances). Primero valida todos los movimientos
// y la disponibilidad agregada por clave; solo entonces escribe.
func (s *Service) PostInTx(ctx context.Context, tx repository.TxRepos, actorID string, movements []Movement) ([]*entity.LedgerEntry, error) {
	if len(movements) == 0 {
		return nil, nil
	}
	for _, m := range movements {
		if err := validateMovement(m); err != nil {
			return nil, err
		}
	}

	keys := KeysOf(movements)
	current, err := tx.Balances().LockForUpdate(ctx, keys)
	if err != nil {
		return nil, err
	}

	required := make(map[entity.BalanceKey]int64)
	for _, m := range movements {
		if m.MovementType.IsRemoval() {
			required[m.Key] += m.Quantity
		}
	}
	for _, k := range keys {
		need, ok := required[k]
		if !ok {
			continue
		}
		if have := current[k]; have < need {
			return nil, fmt.Errorf("%w: producto %s en ubicación %s (disponible %d, requerido %d)",
				domain.ErrInsufficientStock, k.ProductID, k.LocationID, have, need)
		}
	}

	now := s.now()
	posted := make([]*entity.LedgerEntry, 0, len(movements))
	for _, m := range movements {
		entry := &entity.LedgerEntry{
			ID:             uuid.New().String(),
			ProductID:      m.Key.ProductID,
			WarehouseID:    m.Key.WarehouseID,
			LocationID:     m.Key.LocationID,
			MovementType:   m.MovementType,
			Quantity:       m.Quantity,
			DocumentType:   m.DocumentType,
			DocumentID:     m.DocumentID,
			DocumentLineID: m.DocumentLineID,
			Note:           m.Note,
			CreatedBy:      actorID,
			CreatedAt:      now,
		}
		if err := tx.Ledger().Append(ctx, entry); err != nil {
			return nil, err
		}
		next, err := tx.Balances().ApplyDelta(ctx, m.Key, entry.SignedQuantity())
		if err != nil {
			return nil, err
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: saldo negativo para %s", domain.ErrInsufficientStock, m.Key)
		}
		posted = append(posted, entry)
	}
	return posted, nil
}

// Notify avisa a los listeners tras un commit exitoso.
func (s *Service) Notify(ctx context.Context, keys []entity.BalanceKey) {
	if len(keys) == 0 {
		return
	}
	for _, l := range s.listeners {
		l.BalancesChanged(ctx, keys)
	}
	s.log.Debug().Int("keys", len(keys)).Msg("saldos actualizados")
}

// GetBalance saldo actual; 0 si la clave nunca tuvo movimientos.
func (s *Service) GetBalance(ctx context.Context, key entity.BalanceKey) (int64, error) {
	if !key.Complete() {
		return 0, fmt.Errorf("%w: producto, bodega y ubicación son requeridos", domain.ErrValidation)
	}
	return s.balances.Get(ctx, key)
}

// History asientos filtrados, más recientes primero, con el total sin paginar.
func (s *Service) History(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, int, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, fmt.Errorf("%w: rango de fechas inválido", domain.ErrValidation)
	}
	return s.entries.List(ctx, filter)
}

// EntriesForDocument asientos generados por un documento, en orden de registro.
func (s *Service) EntriesForDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	return s.entries.ListByDocument(ctx, documentID)
}

// Reconcile compara cada saldo materializado con la suma del libro.
func (s *Service) Reconcile(ctx context.Context) ([]Discrepancy, error) {
	sums, err := s.entries.SumByKey(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := s.balances.List(ctx, repository.BalanceFilter{})
	if err != nil {
		return nil, err
	}
	stored := make(map[entity.BalanceKey]int64, len(balances))
	for _, b := range balances {
		stored[b.BalanceKey] = b.QuantityOnHand
	}

	var out []Discrepancy
	for k, sum := range sums {
		if stored[k] != sum {
			out = append(out, Discrepancy{Key: k, Ledger: sum, Balance: stored[k]})
		}
	}
	for k, qty := range stored {
		if _, ok := sums[k]; !ok && qty != 0 {
			out = append(out, Discrepancy{Key: k, Ledger: 0, Balance: qty})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	if len(out) > 0 {
		s.log.Warn().Int("discrepancies", len(out)).Msg("saldos no coinciden con el libro")
	}
	return out, nil
}

// KeysOf claves únicas de los movimientos, ordenadas.
func KeysOf(movements []Movement) []entity.BalanceKey {
	seen := make(map[entity.BalanceKey]struct{}, len(movements))
	keys := make([]entity.BalanceKey, 0, len(movements))
	for _, m := range movements {
		if _, ok := seen[m.Key]; ok {
			continue
		}
		seen[m.Key] = struct{}{}
		keys = append(keys, m.Key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func validateMovement(m Movement) error {
	if !m.Key.Complete() {
		return fmt.Errorf("%w: producto, bodega y ubicación son requeridos", domain.ErrValidation)
	}
	if !m.MovementType.Valid() {
		return fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrValidation, m.MovementType)
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if m.Quantity > entity.MaxQuantity {
		return fmt.Errorf("%w: la cantidad no puede superar %d", domain.ErrValidation, entity.MaxQuantity)
	}
	return nil
}
