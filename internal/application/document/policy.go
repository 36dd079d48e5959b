package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Policy reglas propias de cada tipo de documento. El ciclo de vida (DRAFT → DONE),
// los locks y la transacción son comunes y viven en Workflow.
type Policy interface {
	Type() entity.DocumentType
	checkHeader(ctx context.Context, c *catalog, doc *entity.Document) error
	checkLine(ctx context.Context, c *catalog, doc *entity.Document, line *entity.DocumentLine) error
	sameLine(a, b *entity.DocumentLine) bool
	// removal clave y cantidad que la línea retira del stock (false si no retira).
	removal(doc *entity.Document, line *entity.DocumentLine) (entity.BalanceKey, int64, bool)
	// confirmable indica si validate acepta cantidades confirmadas por línea.
	confirmable() bool
	movements(doc *entity.Document, line *entity.DocumentLine, labels map[string]string) []ledger.Movement
}

// Policies devuelve las cuatro políticas soportadas.
func Policies() []Policy {
	return []Policy{receiptPolicy{}, deliveryPolicy{}, transferPolicy{}, adjustmentPolicy{}}
}

func samePlace(a, b *entity.DocumentLine) bool {
	return a.ProductID == b.ProductID && a.LocationID == b.LocationID
}

func positiveQuantity(line *entity.DocumentLine) error {
	if line.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if line.Quantity > entity.MaxQuantity {
		return fmt.Errorf("%w: la cantidad no puede superar %d", domain.ErrValidation, entity.MaxQuantity)
	}
	return nil
}

func movement(doc *entity.Document, line *entity.DocumentLine, key entity.BalanceKey, mt entity.MovementType, qty int64, note string) ledger.Movement {
	return ledger.Movement{
		Key:            key,
		MovementType:   mt,
		Quantity:       qty,
		DocumentType:   doc.Type,
		DocumentID:     doc.ID,
		DocumentLineID: line.ID,
		Note:           note,
	}
}

// ── Recepción ──────────────────────────────────────────────────────────────

type receiptPolicy struct{}

func (receiptPolicy) Type() entity.DocumentType { return entity.DocumentReceipt }

func (receiptPolicy) checkHeader(ctx context.Context, c *catalog, doc *entity.Document) error {
	doc.DestinationWarehouseID = ""
	doc.Reason = ""
	if _, err := c.warehouse(ctx, doc.WarehouseID, "warehouse_id"); err != nil {
		return err
	}
	if doc.PartnerID == "" {
		return fmt.Errorf("%w: supplier_id es requerido", domain.ErrValidation)
	}
	_, err := c.partner(ctx, doc.PartnerID, entity.PartnerSupplier)
	return err
}

func (receiptPolicy) checkLine(ctx context.Context, c *catalog, doc *entity.Document, line *entity.DocumentLine) error {
	line.DestinationLocationID = ""
	if err := positiveQuantity(line); err != nil {
		return err
	}
	if _, err := c.product(ctx, line.ProductID); err != nil {
		return err
	}
	_, err := c.locationIn(ctx, line.LocationID, doc.WarehouseID, "location_id")
	return err
}

func (receiptPolicy) sameLine(a, b *entity.DocumentLine) bool { return samePlace(a, b) }

func (receiptPolicy) removal(*entity.Document, *entity.DocumentLine) (entity.BalanceKey, int64, bool) {
	return entity.BalanceKey{}, 0, false
}

func (receiptPolicy) confirmable() bool { return true }

func (receiptPolicy) movements(doc *entity.Document, line *entity.DocumentLine, _ map[string]string) []ledger.Movement {
	key := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	return []ledger.Movement{
		movement(doc, line, key, entity.MovementIn, line.QuantityDone, "Recepción de proveedor - "+doc.Number),
	}
}

// ── Entrega ────────────────────────────────────────────────────────────────

type deliveryPolicy struct{}

func (deliveryPolicy) Type() entity.DocumentType { return entity.DocumentDelivery }

func (deliveryPolicy) checkHeader(ctx context.Context, c *catalog, doc *entity.Document) error {
	doc.DestinationWarehouseID = ""
	doc.Reason = ""
	if _, err := c.warehouse(ctx, doc.WarehouseID, "warehouse_id"); err != nil {
		return err
	}
	if doc.PartnerID == "" {
		return nil
	}
	_, err := c.partner(ctx, doc.PartnerID, entity.PartnerCustomer)
	return err
}

func (deliveryPolicy) checkLine(ctx context.Context, c *catalog, doc *entity.Document, line *entity.DocumentLine) error {
	line.DestinationLocationID = ""
	if err := positiveQuantity(line); err != nil {
		return err
	}
	if _, err := c.product(ctx, line.ProductID); err != nil {
		return err
	}
	_, err := c.locationIn(ctx, line.LocationID, doc.WarehouseID, "location_id")
	return err
}

func (deliveryPolicy) sameLine(a, b *entity.DocumentLine) bool { return samePlace(a, b) }

func (deliveryPolicy) removal(doc *entity.Document, line *entity.DocumentLine) (entity.BalanceKey, int64, bool) {
	key := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	return key, line.Quantity, true
}

func (deliveryPolicy) confirmable() bool { return true }

func (deliveryPolicy) movements(doc *entity.Document, line *entity.DocumentLine, _ map[string]string) []ledger.Movement {
	key := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	return []ledger.Movement{
		movement(doc, line, key, entity.MovementOut, line.QuantityDone, "Entrega a cliente - "+doc.Number),
	}
}

// ── Traslado interno ───────────────────────────────────────────────────────

type transferPolicy struct{}

func (transferPolicy) Type() entity.DocumentType { return entity.DocumentTransfer }

func (transferPolicy) checkHeader(ctx context.Context, c *catalog, doc *entity.Document) error {
	doc.PartnerID = ""
	doc.Reason = ""
	if _, err := c.warehouse(ctx, doc.WarehouseID, "source_warehouse_id"); err != nil {
		return err
	}
	if _, err := c.warehouse(ctx, doc.DestinationWarehouseID, "destination_warehouse_id"); err != nil {
		return err
	}
	if doc.WarehouseID == doc.DestinationWarehouseID {
		return fmt.Errorf("%w: la bodega origen y destino deben ser distintas", domain.ErrValidation)
	}
	return nil
}

func (transferPolicy) checkLine(ctx context.Context, c *catalog, doc *entity.Document, line *entity.DocumentLine) error {
	if err := positiveQuantity(line); err != nil {
		return err
	}
	if _, err := c.product(ctx, line.ProductID); err != nil {
		return err
	}
	if line.LocationID == line.DestinationLocationID {
		return fmt.Errorf("%w: la ubicación origen y destino deben ser distintas", domain.ErrValidation)
	}
	if _, err := c.locationIn(ctx, line.LocationID, doc.WarehouseID, "source_location_id"); err != nil {
		return err
	}
	_, err := c.locationIn(ctx, line.DestinationLocationID, doc.DestinationWarehouseID, "destination_location_id")
	return err
}

func (transferPolicy) sameLine(a, b *entity.DocumentLine) bool {
	return samePlace(a, b) && a.DestinationLocationID == b.DestinationLocationID
}

func (transferPolicy) removal(doc *entity.Document, line *entity.DocumentLine) (entity.BalanceKey, int64, bool) {
	key := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	return key, line.Quantity, true
}

func (transferPolicy) confirmable() bool { return true }

func (transferPolicy) movements(doc *entity.Document, line *entity.DocumentLine, labels map[string]string) []ledger.Movement {
	src := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	dst := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.DestinationWarehouseID, LocationID: line.DestinationLocationID}
	note := fmt.Sprintf("Traslado interno de %s a %s - %s",
		label(labels, line.LocationID), label(labels, line.DestinationLocationID), doc.Number)
	return []ledger.Movement{
		movement(doc, line, src, entity.MovementTransferOut, line.QuantityDone, note),
		movement(doc, line, dst, entity.MovementTransferIn, line.QuantityDone, note),
	}
}

func label(labels map[string]string, id string) string {
	if l, ok := labels[id]; ok && l != "" {
		return l
	}
	return id
}

// ── Ajuste ─────────────────────────────────────────────────────────────────

type adjustmentPolicy struct{}

func (adjustmentPolicy) Type() entity.DocumentType { return entity.DocumentAdjustment }

func (adjustmentPolicy) checkHeader(ctx context.Context, c *catalog, doc *entity.Document) error {
	doc.DestinationWarehouseID = ""
	doc.PartnerID = ""
	if _, err := c.warehouse(ctx, doc.WarehouseID, "warehouse_id"); err != nil {
		return err
	}
	if !doc.Reason.Valid() {
		return fmt.Errorf("%w: reason debe ser DAMAGED, LOSS, COUNT_CORRECTION u OTHER", domain.ErrValidation)
	}
	return nil
}

// checkLine: la cantidad es quantity_change con signo; cero no tiene sentido.
func (adjustmentPolicy) checkLine(ctx context.Context, c *catalog, doc *entity.Document, line *entity.DocumentLine) error {
	line.DestinationLocationID = ""
	if line.Quantity == 0 {
		return fmt.Errorf("%w: quantity_change no puede ser cero", domain.ErrValidation)
	}
	if line.Quantity > entity.MaxQuantity || line.Quantity < -entity.MaxQuantity {
		return fmt.Errorf("%w: quantity_change fuera de rango", domain.ErrValidation)
	}
	if _, err := c.product(ctx, line.ProductID); err != nil {
		return err
	}
	_, err := c.locationIn(ctx, line.LocationID, doc.WarehouseID, "location_id")
	return err
}

func (adjustmentPolicy) sameLine(a, b *entity.DocumentLine) bool { return samePlace(a, b) }

func (adjustmentPolicy) removal(doc *entity.Document, line *entity.DocumentLine) (entity.BalanceKey, int64, bool) {
	if line.Quantity >= 0 {
		return entity.BalanceKey{}, 0, false
	}
	key := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	return key, -line.Quantity, true
}

func (adjustmentPolicy) confirmable() bool { return false }

func (adjustmentPolicy) movements(doc *entity.Document, line *entity.DocumentLine, _ map[string]string) []ledger.Movement {
	key := entity.BalanceKey{ProductID: line.ProductID, WarehouseID: doc.WarehouseID, LocationID: line.LocationID}
	note := strings.TrimSpace(fmt.Sprintf("Ajuste de stock - Motivo: %s. %s", doc.Reason, doc.Remarks))
	mt, qty := entity.MovementAdjustmentPos, line.QuantityDone
	if qty < 0 {
		mt, qty = entity.MovementAdjustmentNeg, -qty
	}
	return []ledger.Movement{movement(doc, line, key, mt, qty, note)}
}
