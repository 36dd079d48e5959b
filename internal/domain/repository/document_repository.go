package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DocumentFilter filtros para listar documentos. Campos vacíos no filtran.
type DocumentFilter struct {
	Type        entity.DocumentType
	Status      entity.DocumentStatus
	WarehouseID string
	PartnerID   string
	Reason      entity.AdjustmentReason
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// DocumentRepository persistencia de cabeceras y líneas de documentos.
// GetByID/GetByNumber devuelven (nil, nil) si no existe.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	GetByNumber(ctx context.Context, number string) (*entity.Document, error)
	// GetForUpdate bloquea la cabecera dentro de la tx actual.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	// List ordena por created_at desc y devuelve el total sin paginar.
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, int, error)
	CountByStatus(ctx context.Context, filter DocumentFilter) (map[entity.DocumentStatus]int, error)

	AddLine(ctx context.Context, line *entity.DocumentLine) error
	UpdateLine(ctx context.Context, line *entity.DocumentLine) error
	DeleteLine(ctx context.Context, documentID, lineID string) error
	ListLines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error)
}
