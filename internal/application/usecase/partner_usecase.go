package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// PartnerUseCase proveedores y clientes.
type PartnerUseCase struct {
	repo repository.PartnerRepository
}

func NewPartnerUseCase(repo repository.PartnerRepository) *PartnerUseCase {
	return &PartnerUseCase{repo: repo}
}

// Create el código es único por tipo de tercero.
func (uc *PartnerUseCase) Create(ctx context.Context, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	kind := entity.PartnerKind(strings.ToUpper(in.Kind))
	if kind != entity.PartnerSupplier && kind != entity.PartnerCustomer {
		return nil, fmt.Errorf("%w: kind debe ser SUPPLIER o CUSTOMER", domain.ErrValidation)
	}
	now := time.Now().UTC()
	partner := &entity.Partner{
		ID:        uuid.New().String(),
		Kind:      kind,
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:      strings.TrimSpace(in.Name),
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, partner); err != nil {
		return nil, err
	}
	return toPartnerResponse(partner), nil
}

// List kind vacío lista ambos tipos.
func (uc *PartnerUseCase) List(ctx context.Context, kind string) ([]dto.PartnerResponse, error) {
	list, err := uc.repo.List(ctx, entity.PartnerKind(strings.ToUpper(kind)))
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartnerResponse(p))
	}
	return items, nil
}

func toPartnerResponse(p *entity.Partner) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:        p.ID,
		Kind:      string(p.Kind),
		Code:      p.Code,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
	}
}

// ReorderRuleUseCase reglas mínimo/máximo usadas por el dashboard y la reposición.
type ReorderRuleUseCase struct {
	repo       repository.ReorderRuleRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

func NewReorderRuleUseCase(
	repo repository.ReorderRuleRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *ReorderRuleUseCase {
	return &ReorderRuleUseCase{repo: repo, products: products, warehouses: warehouses}
}

// Create una regla por producto y bodega (o global si warehouse_id está vacío).
func (uc *ReorderRuleUseCase) Create(ctx context.Context, in dto.CreateReorderRuleRequest) (*dto.ReorderRuleResponse, error) {
	if in.MinQuantity < 0 || (in.MaxQuantity != 0 && in.MaxQuantity < in.MinQuantity) {
		return nil, fmt.Errorf("%w: max_quantity debe ser mayor o igual a min_quantity", domain.ErrValidation)
	}
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if in.WarehouseID != "" {
		w, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
		}
	}
	now := time.Now().UTC()
	rule := &entity.ReorderRule{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return toReorderRuleResponse(rule), nil
}

// List con warehouseID incluye también las reglas globales.
func (uc *ReorderRuleUseCase) List(ctx context.Context, warehouseID string) ([]dto.ReorderRuleResponse, error) {
	list, err := uc.repo.List(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReorderRuleResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReorderRuleResponse(r))
	}
	return items, nil
}

func toReorderRuleResponse(r *entity.ReorderRule) *dto.ReorderRuleResponse {
	return &dto.ReorderRuleResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		MinQuantity: r.MinQuantity,
		MaxQuantity: r.MaxQuantity,
		CreatedAt:   r.CreatedAt,
	}
}
