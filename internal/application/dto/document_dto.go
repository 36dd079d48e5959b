package dto

import "time"

// ── Cabeceras ───────────────────────────────────────────────────────────────

// CreateReceiptRequest recepción de proveedor.
type CreateReceiptRequest struct {
	DocumentNumber string     `json:"document_number" validate:"required,max=50"`
	WarehouseID    string     `json:"warehouse_id" validate:"required"`
	SupplierID     string     `json:"supplier_id" validate:"required"`
	ExpectedDate   *time.Time `json:"expected_date"`
	Remarks        string     `json:"remarks" validate:"max=500"`
}

// CreateDeliveryRequest orden de entrega; el cliente es opcional.
type CreateDeliveryRequest struct {
	DocumentNumber   string     `json:"document_number" validate:"required,max=50"`
	WarehouseID      string     `json:"warehouse_id" validate:"required"`
	CustomerID       string     `json:"customer_id"`
	ExpectedShipDate *time.Time `json:"expected_ship_date"`
	Remarks          string     `json:"remarks" validate:"max=500"`
}

// CreateTransferRequest traslado interno entre bodegas distintas.
type CreateTransferRequest struct {
	DocumentNumber         string     `json:"document_number" validate:"required,max=50"`
	SourceWarehouseID      string     `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string     `json:"destination_warehouse_id" validate:"required,nefield=SourceWarehouseID"`
	ScheduledDate          *time.Time `json:"scheduled_date"`
	Remarks                string     `json:"remarks" validate:"max=500"`
}

// CreateAdjustmentRequest ajuste de inventario con motivo.
type CreateAdjustmentRequest struct {
	DocumentNumber string     `json:"document_number" validate:"required,max=50"`
	WarehouseID    string     `json:"warehouse_id" validate:"required"`
	Reason         string     `json:"reason" validate:"required,oneof=DAMAGED LOSS COUNT_CORRECTION OTHER"`
	AdjustmentDate *time.Time `json:"adjustment_date"`
	Remarks        string     `json:"remarks" validate:"max=500"`
}

// UpdateDocumentRequest edición parcial de cabecera en DRAFT. Campos nil no cambian.
type UpdateDocumentRequest struct {
	DocumentID    string     `json:"document_id" validate:"required"`
	PartnerID     *string    `json:"partner_id"`
	Reason        *string    `json:"reason" validate:"omitempty,oneof=DAMAGED LOSS COUNT_CORRECTION OTHER"`
	Remarks       *string    `json:"remarks" validate:"omitempty,max=500"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// ── Líneas ──────────────────────────────────────────────────────────────────

// AddItemRequest línea de recepción o entrega.
type AddItemRequest struct {
	DocumentID      string `json:"document_id" validate:"required"`
	ProductID       string `json:"product_id" validate:"required"`
	LocationID      string `json:"location_id" validate:"required"`
	QuantityOrdered int64  `json:"quantity_ordered" validate:"gt=0,lte=1000000000000"`
	Remarks         string `json:"remarks" validate:"max=500"`
}

// AddTransferItemRequest línea de traslado con ubicación origen y destino.
type AddTransferItemRequest struct {
	DocumentID            string `json:"document_id" validate:"required"`
	ProductID             string `json:"product_id" validate:"required"`
	SourceLocationID      string `json:"source_location_id" validate:"required"`
	DestinationLocationID string `json:"destination_location_id" validate:"required,nefield=SourceLocationID"`
	Quantity              int64  `json:"quantity" validate:"gt=0,lte=1000000000000"`
	Remarks               string `json:"remarks" validate:"max=500"`
}

// AddAdjustmentItemRequest línea de ajuste; quantity_change con signo, distinto de cero.
type AddAdjustmentItemRequest struct {
	DocumentID     string `json:"document_id" validate:"required"`
	ProductID      string `json:"product_id" validate:"required"`
	LocationID     string `json:"location_id" validate:"required"`
	QuantityChange int64  `json:"quantity_change" validate:"ne=0,min=-1000000000000,max=1000000000000"`
	Remarks        string `json:"remarks" validate:"max=500"`
}

// RemoveItemRequest quita una línea de un documento en DRAFT.
type RemoveItemRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	LineID     string `json:"line_id" validate:"required"`
}

// ── Validación ──────────────────────────────────────────────────────────────

// LineConfirmation cantidad efectivamente movida de una línea.
type LineConfirmation struct {
	LineID   string `json:"line_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0,lte=1000000000000"`
}

// ValidateDocumentRequest valida un documento. Las líneas sin confirmación se
// mueven por su cantidad completa.
type ValidateDocumentRequest struct {
	DocumentID string             `json:"document_id" validate:"required"`
	Lines      []LineConfirmation `json:"lines" validate:"omitempty,dive"`
}

// ── Respuestas ──────────────────────────────────────────────────────────────

// DocumentResponse cabecera de un documento.
type DocumentResponse struct {
	ID                     string     `json:"id"`
	Type                   string     `json:"document_type"`
	DocumentNumber         string     `json:"document_number"`
	Status                 string     `json:"status"`
	WarehouseID            string     `json:"warehouse_id"`
	DestinationWarehouseID string     `json:"destination_warehouse_id,omitempty"`
	PartnerID              string     `json:"partner_id,omitempty"`
	Reason                 string     `json:"reason,omitempty"`
	Remarks                string     `json:"remarks,omitempty"`
	ScheduledDate          *time.Time `json:"scheduled_date,omitempty"`
	DoneAt                 *time.Time `json:"done_at,omitempty"`
	CreatedBy              string     `json:"created_by"`
	ValidatedBy            string     `json:"validated_by,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// DocumentLineResponse línea con datos de presentación.
type DocumentLineResponse struct {
	ID                      string `json:"id"`
	ProductID               string `json:"product_id"`
	SKU                     string `json:"sku,omitempty"`
	ProductName             string `json:"product_name,omitempty"`
	UnitMeasure             string `json:"uom,omitempty"`
	LocationID              string `json:"location_id"`
	LocationCode            string `json:"location_code,omitempty"`
	DestinationLocationID   string `json:"destination_location_id,omitempty"`
	DestinationLocationCode string `json:"destination_location_code,omitempty"`
	Quantity                int64  `json:"quantity"`
	QuantityDone            int64  `json:"quantity_done"`
	Remarks                 string `json:"remarks,omitempty"`
}

// DocumentDetailResponse cabecera + líneas + asientos del libro (solo en DONE).
type DocumentDetailResponse struct {
	DocumentResponse
	WarehouseName            string                 `json:"warehouse_name,omitempty"`
	DestinationWarehouseName string                 `json:"destination_warehouse_name,omitempty"`
	PartnerName              string                 `json:"partner_name,omitempty"`
	Lines                    []DocumentLineResponse `json:"lines"`
	Entries                  []LedgerEntryResponse  `json:"ledger_entries,omitempty"`
}

// LedgerEntryResponse asiento del libro de stock.
type LedgerEntryResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	SKU            string    `json:"sku,omitempty"`
	ProductName    string    `json:"product_name,omitempty"`
	WarehouseID    string    `json:"warehouse_id"`
	WarehouseCode  string    `json:"warehouse_code,omitempty"`
	LocationID     string    `json:"location_id"`
	LocationCode   string    `json:"location_code,omitempty"`
	DocumentType   string    `json:"document_type"`
	DocumentID     string    `json:"document_id"`
	DocumentLineID string    `json:"document_line_id"`
	MovementType   string    `json:"movement_type"`
	Quantity       int64     `json:"quantity"`
	Note           string    `json:"note,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}
