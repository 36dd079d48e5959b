package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PartnerRepository puerto de persistencia de proveedores y clientes.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	List(ctx context.Context, kind entity.PartnerKind) ([]*entity.Partner, error)
}

// ReorderRuleRepository puerto de persistencia de reglas de reposición.
type ReorderRuleRepository interface {
	Create(ctx context.Context, rule *entity.ReorderRule) error
	// List con warehouseID vacío lista todas.
	List(ctx context.Context, warehouseID string) ([]*entity.ReorderRule, error)
}
