// Package document implementa el ciclo de vida común (DRAFT → DONE) de recepciones,
// entregas, traslados internos y ajustes. Las diferencias entre tipos viven en Policy.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CreateInput cabecera de un documento nuevo. Los campos que no aplican al tipo se ignoran.
type CreateInput struct {
	Type                   entity.DocumentType
	Number                 string
	WarehouseID            string
	DestinationWarehouseID string
	PartnerID              string
	Reason                 entity.AdjustmentReason
	Remarks                string
	ScheduledDate          *time.Time
}

// HeaderPatch edición parcial de cabecera (solo en DRAFT). nil = sin cambio.
type HeaderPatch struct {
	PartnerID     *string
	Reason        *entity.AdjustmentReason
	Remarks       *string
	ScheduledDate *time.Time
}

// LineInput línea nueva. En ajustes Quantity es quantity_change (con signo).
type LineInput struct {
	ProductID             string
	LocationID            string
	DestinationLocationID string
	Quantity              int64
	Remarks               string
}

// Confirmation cantidad efectivamente movida para una línea al validar.
type Confirmation struct {
	LineID   string
	Quantity int64
}

// Summary conteo de documentos por estado.
type Summary struct {
	Total int `json:"total"`
	Done  int `json:"done"`
	Draft int `json:"draft"`
}

// Workflow casos de uso de documentos de inventario.
type Workflow struct {
	policies map[entity.DocumentType]Policy
	txRunner repository.TxRunner
	docs     repository.DocumentRepository
	ledger   *ledger.Service
	catalog  *catalog
	log      zerolog.Logger
	now      func() time.Time
}

// NewWorkflow construye el workflow con las cuatro políticas.
func NewWorkflow(
	txRunner repository.TxRunner,
	docs repository.DocumentRepository,
	ledgerSvc *ledger.Service,
	cat Catalog,
	log zerolog.Logger,
) *Workflow {
	policies := make(map[entity.DocumentType]Policy)
	for _, p := range Policies() {
		policies[p.Type()] = p
	}
	return &Workflow{
		policies: policies,
		txRunner: txRunner,
		docs:     docs,
		ledger:   ledgerSvc,
		catalog:  &catalog{Catalog: cat},
		log:      log.With().Str("component", "documents").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (w *Workflow) policy(typ entity.DocumentType) (Policy, error) {
	p, ok := w.policies[typ]
	if !ok {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrValidation, typ)
	}
	return p, nil
}

func documentLockKey(id string) string {
	return "doc:" + id
}

func (w *Workflow) lockDocument(id string) func() {
	return w.ledger.Locker().Lock(documentLockKey(id))
}

// load lee un documento del tipo esperado; otro tipo cuenta como inexistente.
func (w *Workflow) load(ctx context.Context, typ entity.DocumentType, id string) (*entity.Document, Policy, error) {
	p, err := w.policy(typ)
	if err != nil {
		return nil, nil, err
	}
	doc, err := w.docs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil || doc.Type != typ {
		return nil, nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, id)
	}
	return doc, p, nil
}

// lockedDraft relee el documento con FOR UPDATE dentro de la tx y exige DRAFT.
func lockedDraft(ctx context.Context, tx repository.TxRepos, id string) (*entity.Document, error) {
	doc, err := tx.Documents().GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, id)
	}
	if !doc.IsDraft() {
		return nil, errNotDraft(doc)
	}
	return doc, nil
}

func errNotDraft(doc *entity.Document) error {
	return fmt.Errorf("%w: el documento %s está en estado %s", domain.ErrInvalidState, doc.Number, doc.Status)
}

// Create registra la cabecera en DRAFT. document_number es único entre todos los tipos.
func (w *Workflow) Create(ctx context.Context, actorID string, in CreateInput) (*entity.Document, error) {
	p, err := w.policy(in.Type)
	if err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: document_number es requerido", domain.ErrValidation)
	}

	now := w.now()
	doc := &entity.Document{
		ID:                     uuid.New().String(),
		Type:                   in.Type,
		Number:                 number,
		Status:                 entity.StatusDraft,
		WarehouseID:            in.WarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		PartnerID:              in.PartnerID,
		Reason:                 in.Reason,
		Remarks:                strings.TrimSpace(in.Remarks),
		ScheduledDate:          in.ScheduledDate,
		CreatedBy:              actorID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := p.checkHeader(ctx, w.catalog, doc); err != nil {
		return nil, err
	}

	existing, err := w.docs.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el número de documento %s ya existe", domain.ErrDuplicate, number)
	}
	if err := w.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	w.log.Info().
		Str("document_id", doc.ID).
		Str("type", string(doc.Type)).
		Str("number", doc.Number).
		Str("actor", actorID).
		Msg("documento creado")
	return doc, nil
}

// UpdateHeader edita observaciones, fecha programada, tercero o motivo de un documento en DRAFT.
func (w *Workflow) UpdateHeader(ctx context.Context, typ entity.DocumentType, id string, patch HeaderPatch) (*entity.Document, error) {
	unlock := w.lockDocument(id)
	defer unlock()

	doc, p, err := w.load(ctx, typ, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, errNotDraft(doc)
	}
	if patch.PartnerID != nil {
		doc.PartnerID = *patch.PartnerID
	}
	if patch.Reason != nil {
		doc.Reason = *patch.Reason
	}
	if patch.Remarks != nil {
		doc.Remarks = strings.TrimSpace(*patch.Remarks)
	}
	if patch.ScheduledDate != nil {
		d := *patch.ScheduledDate
		doc.ScheduledDate = &d
	}
	if err := p.checkHeader(ctx, w.catalog, doc); err != nil {
		return nil, err
	}

	err = w.txRunner.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		cur, err := lockedDraft(ctx, tx, id)
		if err != nil {
			return err
		}
		cur.PartnerID = doc.PartnerID
		cur.Reason = doc.Reason
		cur.Remarks = doc.Remarks
		cur.ScheduledDate = doc.ScheduledDate
		cur.UpdatedAt = w.now()
		doc = cur
		return tx.Documents().Update(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// AddLine agrega una línea a un documento en DRAFT. Las entregas, traslados y ajustes
// negativos verifican el saldo actual (chequeo no vinculante; validate vuelve a verificar).
func (w *Workflow) AddLine(ctx context.Context, typ entity.DocumentType, docID string, in LineInput) (*entity.DocumentLine, error) {
	unlock := w.lockDocument(docID)
	defer unlock()

	doc, p, err := w.load(ctx, typ, docID)
	if err != nil {
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, errNotDraft(doc)
	}

	line := &entity.DocumentLine{
		ID:                    uuid.New().String(),
		DocumentID:            doc.ID,
		ProductID:             in.ProductID,
		LocationID:            in.LocationID,
		DestinationLocationID: in.DestinationLocationID,
		Quantity:              in.Quantity,
		Remarks:               strings.TrimSpace(in.Remarks),
		CreatedAt:             w.now(),
	}
	if err := p.checkLine(ctx, w.catalog, doc, line); err != nil {
		return nil, err
	}

	err = w.txRunner.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		cur, err := lockedDraft(ctx, tx, docID)
		if err != nil {
			return err
		}
		existing, err := tx.Documents().ListLines(ctx, docID)
		if err != nil {
			return err
		}
		for _, l := range existing {
			if p.sameLine(l, line) {
				return fmt.Errorf("%w: el producto ya tiene una línea con esa ubicación en el documento", domain.ErrDuplicate)
			}
		}
		if key, qty, ok := p.removal(cur, line); ok {
			have, err := tx.Balances().Get(ctx, key)
			if err != nil {
				return err
			}
			if have < qty {
				return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, have, qty)
			}
		}
		return tx.Documents().AddLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveLine elimina una línea mientras el documento está en DRAFT.
func (w *Workflow) RemoveLine(ctx context.Context, typ entity.DocumentType, docID, lineID string) error {
	unlock := w.lockDocument(docID)
	defer unlock()

	if _, _, err := w.load(ctx, typ, docID); err != nil {
		return err
	}
	return w.txRunner.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		if _, err := lockedDraft(ctx, tx, docID); err != nil {
			return err
		}
		if err := tx.Documents().DeleteLine(ctx, docID, lineID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
			}
			return err
		}
		return nil
	})
}

// Validate confirma el documento: verifica todas las líneas y la disponibilidad agregada,
// registra todos los asientos y pasa a DONE en una sola transacción. Si algo falla no
// queda ningún asiento y el documento sigue en DRAFT.
func (w *Workflow) Validate(ctx context.Context, typ entity.DocumentType, docID, actorID string, confirmations []Confirmation) (*entity.Document, error) {
	unlock := w.lockDocument(docID)
	defer unlock()

	doc, p, err := w.load(ctx, typ, docID)
	if err != nil {
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, errNotDraft(doc)
	}
	lines, err := w.docs.ListLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	labels, err := w.locationLabels(ctx, lines)
	if err != nil {
		return nil, err
	}
	planned, err := plan(p, doc, lines, confirmations, labels)
	if err != nil {
		return nil, err
	}

	keys := ledger.KeysOf(planned)
	unlockBalances := w.ledger.LockBalances(keys)
	defer unlockBalances()

	var posted []*entity.LedgerEntry
	err = w.txRunner.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		cur, err := lockedDraft(ctx, tx, docID)
		if err != nil {
			return err
		}
		lines, err := tx.Documents().ListLines(ctx, docID)
		if err != nil {
			return err
		}
		movements, err := plan(p, cur, lines, confirmations, labels)
		if err != nil {
			return err
		}
		if posted, err = w.ledger.PostInTx(ctx, tx, actorID, movements); err != nil {
			return err
		}
		for _, l := range lines {
			if err := tx.Documents().UpdateLine(ctx, l); err != nil {
				return err
			}
		}
		now := w.now()
		cur.Status = entity.StatusDone
		cur.DoneAt = &now
		cur.ValidatedBy = actorID
		cur.UpdatedAt = now
		doc = cur
		return tx.Documents().Update(ctx, cur)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			w.log.Info().Str("document_id", docID).Err(err).Msg("validación rechazada por stock")
		}
		return nil, err
	}
	w.ledger.Notify(ctx, keys)

	w.log.Info().
		Str("document_id", doc.ID).
		Str("number", doc.Number).
		Int("entries", len(posted)).
		Str("actor", actorID).
		Msg("documento validado")
	return doc, nil
}

// plan aplica las confirmaciones, verifica cada línea y arma los movimientos.
// No escribe nada.
func plan(p Policy, doc *entity.Document, lines []*entity.DocumentLine, confirmations []Confirmation, labels map[string]string) ([]ledger.Movement, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, doc.Number)
	}
	if err := applyConfirmations(p, lines, confirmations); err != nil {
		return nil, err
	}
	var movements []ledger.Movement
	for _, l := range lines {
		if l.QuantityDone == 0 || (p.confirmable() && l.QuantityDone < 0) {
			return nil, fmt.Errorf("%w: la línea %s no tiene cantidad a mover", domain.ErrValidation, l.ID)
		}
		movements = append(movements, p.movements(doc, l, labels)...)
	}
	return movements, nil
}

func applyConfirmations(p Policy, lines []*entity.DocumentLine, confirmations []Confirmation) error {
	if !p.confirmable() {
		for _, l := range lines {
			l.QuantityDone = l.Quantity
		}
		return nil
	}
	byLine := make(map[string]int64, len(confirmations))
	for _, c := range confirmations {
		if _, dup := byLine[c.LineID]; dup {
			return fmt.Errorf("%w: línea %s confirmada dos veces", domain.ErrValidation, c.LineID)
		}
		byLine[c.LineID] = c.Quantity
	}
	for _, l := range lines {
		qty, ok := byLine[l.ID]
		if !ok {
			l.QuantityDone = l.Quantity
			continue
		}
		if qty < 1 || qty > l.Quantity {
			return fmt.Errorf("%w: la cantidad confirmada de la línea %s debe estar entre 1 y %d",
				domain.ErrValidation, l.ID, l.Quantity)
		}
		l.QuantityDone = qty
		delete(byLine, l.ID)
	}
	for id := range byLine {
		return fmt.Errorf("%w: la línea %s no pertenece al documento", domain.ErrValidation, id)
	}
	return nil
}

func (w *Workflow) locationLabels(ctx context.Context, lines []*entity.DocumentLine) (map[string]string, error) {
	labels := make(map[string]string)
	for _, l := range lines {
		for _, id := range []string{l.LocationID, l.DestinationLocationID} {
			if id == "" {
				continue
			}
			if _, ok := labels[id]; ok {
				continue
			}
			loc, err := w.catalog.Locations.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if loc != nil {
				labels[id] = loc.Code
			}
		}
	}
	return labels, nil
}

// List documentos del tipo, más recientes primero, con el total sin paginar.
func (w *Workflow) List(ctx context.Context, typ entity.DocumentType, filter repository.DocumentFilter) ([]*entity.Document, int, error) {
	if _, err := w.policy(typ); err != nil {
		return nil, 0, err
	}
	filter.Type = typ
	return w.docs.List(ctx, filter)
}

// Summary totales por estado para el tipo y filtro dados.
func (w *Workflow) Summary(ctx context.Context, typ entity.DocumentType, filter repository.DocumentFilter) (Summary, error) {
	if _, err := w.policy(typ); err != nil {
		return Summary{}, err
	}
	filter.Type = typ
	counts, err := w.docs.CountByStatus(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	for status, n := range counts {
		s.Total += n
		switch status {
		case entity.StatusDone:
			s.Done += n
		case entity.StatusDraft:
			s.Draft += n
		}
	}
	return s, nil
}
