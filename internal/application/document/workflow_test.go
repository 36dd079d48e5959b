package document_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/document"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos bodegas, tres ubicaciones, dos productos, proveedor y cliente
// ──────────────────────────────────────────────────────────────────────────────

const actor = "user-1"

type fixture struct {
	wf     *document.Workflow
	ledger *ledger.Service
	store  *memory.Store
	ctx    context.Context

	w1, w2        string
	l1, l1b, l2   string
	p, q          string
	supplier, cus string
	seq           int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now().UTC()

	mustCreate := func(err error) { require.NoError(t, err) }
	mustCreate(store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Code: "WH1", Name: "Principal", IsActive: true, CreatedAt: now}))
	mustCreate(store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Code: "WH2", Name: "Sucursal", IsActive: true, CreatedAt: now}))
	mustCreate(store.Locations().Create(ctx, &entity.Location{ID: "l1", WarehouseID: "w1", Code: "A-01", Name: "Pasillo A", IsActive: true}))
	mustCreate(store.Locations().Create(ctx, &entity.Location{ID: "l1b", WarehouseID: "w1", Code: "B-01", Name: "Pasillo B", IsActive: true}))
	mustCreate(store.Locations().Create(ctx, &entity.Location{ID: "l2", WarehouseID: "w2", Code: "A-01", Name: "Pasillo A", IsActive: true}))
	mustCreate(store.Products().Create(ctx, &entity.Product{ID: "p", SKU: "SKU-P", Name: "Tornillo", UnitMeasure: "UND", IsActive: true}))
	mustCreate(store.Products().Create(ctx, &entity.Product{ID: "q", SKU: "SKU-Q", Name: "Tuerca", UnitMeasure: "UND", IsActive: true}))
	mustCreate(store.Partners().Create(ctx, &entity.Partner{ID: "s1", Kind: entity.PartnerSupplier, Code: "PRV1", Name: "Aceros SA"}))
	mustCreate(store.Partners().Create(ctx, &entity.Partner{ID: "c1", Kind: entity.PartnerCustomer, Code: "CLI1", Name: "Ferretería Centro"}))

	svc := ledger.NewService(store, store.Ledger(), store.Balances(), nil, zerolog.Nop())
	wf := document.NewWorkflow(store, store.Documents(), svc, document.Catalog{
		Products:   store.Products(),
		Warehouses: store.Warehouses(),
		Locations:  store.Locations(),
		Partners:   store.Partners(),
	}, zerolog.Nop())

	return &fixture{
		wf: wf, ledger: svc, store: store, ctx: ctx,
		w1: "w1", w2: "w2", l1: "l1", l1b: "l1b", l2: "l2",
		p: "p", q: "q", supplier: "s1", cus: "c1",
	}
}

func (f *fixture) number(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%03d", prefix, f.seq)
}

func (f *fixture) create(t *testing.T, in document.CreateInput) *entity.Document {
	t.Helper()
	if in.Number == "" {
		in.Number = f.number(string(in.Type))
	}
	doc, err := f.wf.Create(f.ctx, actor, in)
	require.NoError(t, err)
	return doc
}

func (f *fixture) receipt(t *testing.T) *entity.Document {
	return f.create(t, document.CreateInput{Type: entity.DocumentReceipt, WarehouseID: f.w1, PartnerID: f.supplier})
}

func (f *fixture) delivery(t *testing.T) *entity.Document {
	return f.create(t, document.CreateInput{Type: entity.DocumentDelivery, WarehouseID: f.w1, PartnerID: f.cus})
}

func (f *fixture) addLine(t *testing.T, doc *entity.Document, product, location string, qty int64) *entity.DocumentLine {
	t.Helper()
	line, err := f.wf.AddLine(f.ctx, doc.Type, doc.ID, document.LineInput{ProductID: product, LocationID: location, Quantity: qty})
	require.NoError(t, err)
	return line
}

func (f *fixture) validate(t *testing.T, doc *entity.Document) *entity.Document {
	t.Helper()
	out, err := f.wf.Validate(f.ctx, doc.Type, doc.ID, actor, nil)
	require.NoError(t, err)
	return out
}

// stock inicial vía recepción validada.
func (f *fixture) stock(t *testing.T, product, location string, qty int64) {
	t.Helper()
	r := f.receipt(t)
	f.addLine(t, r, product, location, qty)
	f.validate(t, r)
}

func (f *fixture) balance(t *testing.T, product, warehouse, location string) int64 {
	t.Helper()
	qty, err := f.ledger.GetBalance(f.ctx, entity.BalanceKey{ProductID: product, WarehouseID: warehouse, LocationID: location})
	require.NoError(t, err)
	return qty
}

func (f *fixture) entries(t *testing.T, docID string) []*entity.LedgerEntry {
	t.Helper()
	list, err := f.ledger.EntriesForDocument(f.ctx, docID)
	require.NoError(t, err)
	return list
}

func (f *fixture) status(t *testing.T, doc *entity.Document) entity.DocumentStatus {
	t.Helper()
	d, err := f.wf.Get(f.ctx, doc.Type, doc.ID)
	require.NoError(t, err)
	return d.Document.Status
}

func (f *fixture) assertLedgerConsistent(t *testing.T) {
	t.Helper()
	d, err := f.ledger.Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, d, "cada saldo debe ser la suma de su libro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios principales
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_RecepcionEntregaYPrechequeo(t *testing.T) {
	f := newFixture(t)

	r1 := f.receipt(t)
	f.addLine(t, r1, f.p, f.l1, 100)
	done := f.validate(t, r1)
	assert.Equal(t, entity.StatusDone, done.Status)
	require.NotNil(t, done.DoneAt)
	assert.Equal(t, int64(100), f.balance(t, f.p, f.w1, f.l1))
	inEntries := f.entries(t, r1.ID)
	require.Len(t, inEntries, 1)
	assert.Equal(t, entity.MovementIn, inEntries[0].MovementType)
	assert.Equal(t, int64(100), inEntries[0].Quantity)
	assert.Equal(t, actor, inEntries[0].CreatedBy)
	assert.Contains(t, inEntries[0].Note, r1.Number)

	d1 := f.delivery(t)
	f.addLine(t, d1, f.p, f.l1, 30)
	f.validate(t, d1)
	assert.Equal(t, int64(70), f.balance(t, f.p, f.w1, f.l1))
	outEntries := f.entries(t, d1.ID)
	require.Len(t, outEntries, 1)
	assert.Equal(t, entity.MovementOut, outEntries[0].MovementType)
	assert.Equal(t, int64(30), outEntries[0].Quantity)

	d2 := f.delivery(t)
	_, err := f.wf.AddLine(f.ctx, d2.Type, d2.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, Quantity: 1000})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	f.assertLedgerConsistent(t)
}

func TestEscenario_TrasladoDual(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 15)

	tr := f.create(t, document.CreateInput{Type: entity.DocumentTransfer, WarehouseID: f.w1, DestinationWarehouseID: f.w2})
	line, err := f.wf.AddLine(f.ctx, tr.Type, tr.ID, document.LineInput{
		ProductID: f.p, LocationID: f.l1, DestinationLocationID: f.l2, Quantity: 15,
	})
	require.NoError(t, err)
	f.validate(t, tr)

	assert.Zero(t, f.balance(t, f.p, f.w1, f.l1))
	assert.Equal(t, int64(15), f.balance(t, f.p, f.w2, f.l2))

	entries := f.entries(t, tr.ID)
	require.Len(t, entries, 2)
	var net int64
	types := map[entity.MovementType]bool{}
	for _, e := range entries {
		assert.Equal(t, line.ID, e.DocumentLineID)
		assert.Equal(t, int64(15), e.Quantity)
		assert.Equal(t, entity.DocumentTransfer, e.DocumentType)
		assert.Contains(t, e.Note, "A-01")
		types[e.MovementType] = true
		net += e.SignedQuantity()
	}
	assert.True(t, types[entity.MovementTransferOut])
	assert.True(t, types[entity.MovementTransferIn])
	assert.Zero(t, net)
	f.assertLedgerConsistent(t)
}

func TestValidate_SegundaVezEsInvalidState(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	f.addLine(t, r, f.p, f.l1, 10)
	f.validate(t, r)

	_, err := f.wf.Validate(f.ctx, r.Type, r.ID, actor, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Len(t, f.entries(t, r.ID), 1)
	assert.Equal(t, int64(10), f.balance(t, f.p, f.w1, f.l1))
}

func TestValidate_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 100)
	f.stock(t, f.q, f.l1, 50)

	a := f.delivery(t)
	f.addLine(t, a, f.p, f.l1, 80)
	b := f.delivery(t)
	f.addLine(t, b, f.q, f.l1, 10)
	f.addLine(t, b, f.p, f.l1, 80) // el prechequeo pasa: 100 >= 80

	f.validate(t, a)
	_, err := f.wf.Validate(f.ctx, b.Type, b.ID, actor, nil)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, f.entries(t, b.ID), "ninguna línea de b queda registrada")
	assert.Equal(t, entity.StatusDraft, f.status(t, b))
	assert.Equal(t, int64(50), f.balance(t, f.q, f.w1, f.l1))
	assert.Equal(t, int64(20), f.balance(t, f.p, f.w1, f.l1))
	f.assertLedgerConsistent(t)
}

func TestValidate_PrechequeoNoReservaStock(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 10)

	adj := f.create(t, document.CreateInput{Type: entity.DocumentAdjustment, WarehouseID: f.w1, Reason: entity.ReasonLoss})
	f.addLine(t, adj, f.p, f.l1, -6)
	tr := f.create(t, document.CreateInput{Type: entity.DocumentTransfer, WarehouseID: f.w1, DestinationWarehouseID: f.w2})
	_, err := f.wf.AddLine(f.ctx, tr.Type, tr.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, DestinationLocationID: f.l2, Quantity: 6})
	require.NoError(t, err)

	f.validate(t, adj)
	_, err = f.wf.Validate(f.ctx, tr.Type, tr.ID, actor, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(4), f.balance(t, f.p, f.w1, f.l1))
}

func TestValidate_ConcurrenciaDosEntregasDe60(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 100)

	docs := []*entity.Document{f.delivery(t), f.delivery(t)}
	for _, d := range docs {
		f.addLine(t, d, f.p, f.l1, 60)
	}

	var mu sync.Mutex
	var succeeded, rejected int
	var g errgroup.Group
	for _, d := range docs {
		d := d
		g.Go(func() error {
			_, err := f.wf.Validate(f.ctx, d.Type, d.ID, actor, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(40), f.balance(t, f.p, f.w1, f.l1))
	f.assertLedgerConsistent(t)
}

func TestValidate_ConcurrenciaMismoDocumento(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	f.addLine(t, r, f.p, f.l1, 5)

	var mu sync.Mutex
	var ok, invalid int
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := f.wf.Validate(f.ctx, r.Type, r.ID, actor, nil)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInvalidState) {
				invalid++
			} else {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, invalid)
	assert.Equal(t, int64(5), f.balance(t, f.p, f.w1, f.l1))
}

func TestValidate_DocumentoVacio(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	_, err := f.wf.Validate(f.ctx, r.Type, r.ID, actor, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Equal(t, entity.StatusDraft, f.status(t, r))
}

func TestValidate_Confirmaciones(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	line := f.addLine(t, r, f.p, f.l1, 100)
	other := f.addLine(t, r, f.q, f.l1, 8)

	for _, bad := range [][]document.Confirmation{
		{{LineID: line.ID, Quantity: 0}},
		{{LineID: line.ID, Quantity: 101}},
		{{LineID: "no-existe", Quantity: 1}},
		{{LineID: line.ID, Quantity: 1}, {LineID: line.ID, Quantity: 2}},
	} {
		_, err := f.wf.Validate(f.ctx, r.Type, r.ID, actor, bad)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Equal(t, entity.StatusDraft, f.status(t, r))

	_, err := f.wf.Validate(f.ctx, r.Type, r.ID, actor, []document.Confirmation{{LineID: line.ID, Quantity: 60}})
	require.NoError(t, err)
	assert.Equal(t, int64(60), f.balance(t, f.p, f.w1, f.l1))
	assert.Equal(t, int64(8), f.balance(t, f.q, f.w1, f.l1))

	details, err := f.wf.Get(f.ctx, r.Type, r.ID)
	require.NoError(t, err)
	done := map[string]int64{}
	for _, l := range details.Lines {
		done[l.Line.ID] = l.Line.QuantityDone
	}
	assert.Equal(t, int64(60), done[line.ID])
	assert.Equal(t, int64(8), done[other.ID])
	assert.Len(t, details.Entries, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// create / addLine / removeLine / update
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumeroGlobalUnico(t *testing.T) {
	f := newFixture(t)
	f.create(t, document.CreateInput{Type: entity.DocumentReceipt, Number: "DOC-1", WarehouseID: f.w1, PartnerID: f.supplier})

	_, err := f.wf.Create(f.ctx, actor, document.CreateInput{Type: entity.DocumentDelivery, Number: "DOC-1", WarehouseID: f.w1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_ReglasDeCabecera(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   document.CreateInput
		want error
	}{
		{"sin número", document.CreateInput{Type: entity.DocumentDelivery, WarehouseID: f.w1}, domain.ErrValidation},
		{"recepción sin proveedor", document.CreateInput{Type: entity.DocumentReceipt, Number: "R", WarehouseID: f.w1}, domain.ErrValidation},
		{"recepción con cliente", document.CreateInput{Type: entity.DocumentReceipt, Number: "R", WarehouseID: f.w1, PartnerID: f.cus}, domain.ErrValidation},
		{"bodega inexistente", document.CreateInput{Type: entity.DocumentDelivery, Number: "D", WarehouseID: "nope"}, domain.ErrNotFound},
		{"traslado misma bodega", document.CreateInput{Type: entity.DocumentTransfer, Number: "T", WarehouseID: f.w1, DestinationWarehouseID: f.w1}, domain.ErrValidation},
		{"traslado sin destino", document.CreateInput{Type: entity.DocumentTransfer, Number: "T", WarehouseID: f.w1}, domain.ErrValidation},
		{"ajuste sin motivo", document.CreateInput{Type: entity.DocumentAdjustment, Number: "A", WarehouseID: f.w1}, domain.ErrValidation},
		{"tipo desconocido", document.CreateInput{Type: "OTRO", Number: "X", WarehouseID: f.w1}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.wf.Create(f.ctx, actor, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	d, err := f.wf.Create(f.ctx, actor, document.CreateInput{Type: entity.DocumentDelivery, Number: "D-SIN-CLIENTE", WarehouseID: f.w1})
	require.NoError(t, err, "el cliente es opcional en entregas")
	assert.Equal(t, entity.StatusDraft, d.Status)
}

func TestAddLine_Validaciones(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	f.addLine(t, r, f.p, f.l1, 5)

	cases := []struct {
		name string
		in   document.LineInput
		want error
	}{
		{"línea duplicada", document.LineInput{ProductID: f.p, LocationID: f.l1, Quantity: 1}, domain.ErrDuplicate},
		{"cantidad cero", document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: 0}, domain.ErrValidation},
		{"cantidad negativa", document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: -2}, domain.ErrValidation},
		{"cantidad sobre el tope", document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: entity.MaxQuantity + 1}, domain.ErrValidation},
		{"producto inexistente", document.LineInput{ProductID: "zz", LocationID: f.l1, Quantity: 1}, domain.ErrValidation},
		{"ubicación de otra bodega", document.LineInput{ProductID: f.q, LocationID: f.l2, Quantity: 1}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.wf.AddLine(f.ctx, r.Type, r.ID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.wf.AddLine(f.ctx, r.Type, "no-existe", document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.wf.AddLine(f.ctx, entity.DocumentDelivery, r.ID, document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound, "un id de recepción no es una entrega")
}

func TestAddLine_TrasladoMismaUbicacionYDuplicado(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 10)
	tr := f.create(t, document.CreateInput{Type: entity.DocumentTransfer, WarehouseID: f.w1, DestinationWarehouseID: f.w2})

	_, err := f.wf.AddLine(f.ctx, tr.Type, tr.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, DestinationLocationID: f.l1b, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation, "el destino debe pertenecer a la bodega destino")

	_, err = f.wf.AddLine(f.ctx, tr.Type, tr.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, DestinationLocationID: f.l2, Quantity: 4})
	require.NoError(t, err)
	_, err = f.wf.AddLine(f.ctx, tr.Type, tr.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, DestinationLocationID: f.l2, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = f.wf.AddLine(f.ctx, tr.Type, tr.ID, document.LineInput{ProductID: f.q, LocationID: f.l1, DestinationLocationID: f.l2, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestDocumentoDone_EsInmutable(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	line := f.addLine(t, r, f.p, f.l1, 3)
	f.validate(t, r)

	_, err := f.wf.AddLine(f.ctx, r.Type, r.ID, document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, f.wf.RemoveLine(f.ctx, r.Type, r.ID, line.ID), domain.ErrInvalidState)
	remarks := "tarde"
	_, err = f.wf.UpdateHeader(f.ctx, r.Type, r.ID, document.HeaderPatch{Remarks: &remarks})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRemoveLineYUpdateHeader(t *testing.T) {
	f := newFixture(t)
	d := f.delivery(t)
	f.stock(t, f.p, f.l1, 5)
	line := f.addLine(t, d, f.p, f.l1, 2)

	require.NoError(t, f.wf.RemoveLine(f.ctx, d.Type, d.ID, line.ID))
	assert.ErrorIs(t, f.wf.RemoveLine(f.ctx, d.Type, d.ID, line.ID), domain.ErrNotFound)

	remarks := "  entregar en portería "
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	out, err := f.wf.UpdateHeader(f.ctx, d.Type, d.ID, document.HeaderPatch{Remarks: &remarks, ScheduledDate: &date})
	require.NoError(t, err)
	assert.Equal(t, "entregar en portería", out.Remarks)
	require.NotNil(t, out.ScheduledDate)
	assert.True(t, date.Equal(*out.ScheduledDate))

	supplier := f.supplier
	_, err = f.wf.UpdateHeader(f.ctx, d.Type, d.ID, document.HeaderPatch{PartnerID: &supplier})
	assert.ErrorIs(t, err, domain.ErrValidation, "una entrega no acepta proveedores")
}

func TestAjuste_PositivoYNegativo(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 10)

	adj := f.create(t, document.CreateInput{Type: entity.DocumentAdjustment, WarehouseID: f.w1, Reason: entity.ReasonCountCorrection, Remarks: "conteo anual"})
	_, err := f.wf.AddLine(f.ctx, adj.Type, adj.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.wf.AddLine(f.ctx, adj.Type, adj.ID, document.LineInput{ProductID: f.p, LocationID: f.l1, Quantity: -11})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = f.wf.AddLine(f.ctx, adj.Type, adj.ID, document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: entity.MaxQuantity + 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.wf.AddLine(f.ctx, adj.Type, adj.ID, document.LineInput{ProductID: f.q, LocationID: f.l1, Quantity: -entity.MaxQuantity - 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.addLine(t, adj, f.p, f.l1, -4)
	f.addLine(t, adj, f.q, f.l1, 7)
	f.validate(t, adj)

	assert.Equal(t, int64(6), f.balance(t, f.p, f.w1, f.l1))
	assert.Equal(t, int64(7), f.balance(t, f.q, f.w1, f.l1))
	for _, e := range f.entries(t, adj.ID) {
		assert.Positive(t, e.Quantity)
		assert.Contains(t, e.Note, "COUNT_CORRECTION")
		if e.ProductID == f.p {
			assert.Equal(t, entity.MovementAdjustmentNeg, e.MovementType)
		} else {
			assert.Equal(t, entity.MovementAdjustmentPos, e.MovementType)
		}
	}
	f.assertLedgerConsistent(t)
}

func TestListYSummary(t *testing.T) {
	f := newFixture(t)
	f.stock(t, f.p, f.l1, 10)

	a1 := f.create(t, document.CreateInput{Type: entity.DocumentAdjustment, WarehouseID: f.w1, Reason: entity.ReasonDamaged})
	f.addLine(t, a1, f.p, f.l1, -1)
	f.validate(t, a1)
	f.create(t, document.CreateInput{Type: entity.DocumentAdjustment, WarehouseID: f.w1, Reason: entity.ReasonLoss})
	f.create(t, document.CreateInput{Type: entity.DocumentAdjustment, WarehouseID: f.w1, Reason: entity.ReasonLoss})

	s, err := f.wf.Summary(f.ctx, entity.DocumentAdjustment, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, document.Summary{Total: 3, Done: 1, Draft: 2}, s)

	list, total, err := f.wf.List(f.ctx, entity.DocumentAdjustment, repository.DocumentFilter{Reason: entity.ReasonLoss, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, entity.ReasonLoss, list[0].Reason)

	receipts, total, err := f.wf.List(f.ctx, entity.DocumentReceipt, repository.DocumentFilter{Status: entity.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, receipts, 1)
}

func TestGet_Detalle(t *testing.T) {
	f := newFixture(t)
	r := f.receipt(t)
	f.addLine(t, r, f.p, f.l1, 4)

	d, err := f.wf.Get(f.ctx, r.Type, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "WH1", d.Warehouse.Code)
	assert.Equal(t, "Aceros SA", d.Partner.Name)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "SKU-P", d.Lines[0].Product.SKU)
	assert.Equal(t, "A-01", d.Lines[0].Location.Code)
	assert.Empty(t, d.Entries, "un borrador no tiene asientos")

	_, err = f.wf.Get(f.ctx, entity.DocumentDelivery, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
