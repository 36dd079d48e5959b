package entity

import "time"

// DocumentStatus estado de un documento de inventario.
// WAITING, READY y CANCELED están reservados: ninguna operación transiciona hacia ellos.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "DRAFT"
	StatusWaiting  DocumentStatus = "WAITING"
	StatusReady    DocumentStatus = "READY"
	StatusDone     DocumentStatus = "DONE"
	StatusCanceled DocumentStatus = "CANCELED"
)

// AdjustmentReason motivo de un ajuste de inventario.
type AdjustmentReason string

const (
	ReasonDamaged         AdjustmentReason = "DAMAGED"
	ReasonLoss            AdjustmentReason = "LOSS"
	ReasonCountCorrection AdjustmentReason = "COUNT_CORRECTION"
	ReasonOther           AdjustmentReason = "OTHER"
)

// Valid indica si el motivo es uno de los conocidos.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonDamaged, ReasonLoss, ReasonCountCorrection, ReasonOther:
		return true
	}
	return false
}

// Document cabecera de recepción, entrega, traslado interno o ajuste.
// DestinationWarehouseID solo aplica a traslados; PartnerID a recepciones (proveedor) y entregas (cliente).
type Document struct {
	ID                     string
	Type                   DocumentType
	Number                 string
	Status                 DocumentStatus
	WarehouseID            string
	DestinationWarehouseID string
	PartnerID              string
	Reason                 AdjustmentReason
	Remarks                string
	ScheduledDate          *time.Time
	DoneAt                 *time.Time
	CreatedBy              string
	ValidatedBy            string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsDraft indica si el documento aún es editable.
func (d *Document) IsDraft() bool {
	return d.Status == StatusDraft
}

// DocumentLine línea de producto de un documento.
// Quantity es la cantidad pedida (con signo solo en ajustes); QuantityDone la efectivamente movida al validar.
type DocumentLine struct {
	ID                    string
	DocumentID            string
	ProductID             string
	LocationID            string
	DestinationLocationID string
	Quantity              int64
	QuantityDone          int64
	Remarks               string
	CreatedAt             time.Time
}
