package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.PartnerRepository     = (*PartnerRepo)(nil)
	_ repository.ReorderRuleRepository = (*ReorderRuleRepo)(nil)
)

// PartnerRepo proveedores y clientes.
type PartnerRepo struct {
	q Querier
}

func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, kind, code, name, email, phone, created_at, updated_at`

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var p entity.Partner
	if err := row.Scan(&p.ID, &p.Kind, &p.Code, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO partners (`+partnerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Kind, p.Code, p.Name, p.Email, p.Phone, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tercero %s", domain.ErrDuplicate, p.Code)
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	if !validIDs(id) {
		return nil, nil
	}
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id))
	if err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// List kind vacío lista ambos tipos.
func (r *PartnerRepo) List(ctx context.Context, kind entity.PartnerKind) ([]*entity.Partner, error) {
	var w where
	if kind != "" {
		w.add(`kind = ?`, kind)
	}
	rows, err := r.q.Query(ctx, `SELECT `+partnerColumns+` FROM partners`+w.sql()+` ORDER BY name, id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ReorderRuleRepo reglas de reposición.
type ReorderRuleRepo struct {
	q Querier
}

func NewReorderRuleRepository(q Querier) *ReorderRuleRepo {
	return &ReorderRuleRepo{q: q}
}

func (r *ReorderRuleRepo) Create(ctx context.Context, rule *entity.ReorderRule) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reorder_rules (id, product_id, warehouse_id, min_quantity, max_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rule.ID, rule.ProductID, nullable(rule.WarehouseID), rule.MinQuantity, rule.MaxQuantity,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: regla de reposición", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert reorder rule: %w", err)
	}
	return nil
}

// List con warehouseID incluye las reglas globales (warehouse_id NULL).
func (r *ReorderRuleRepo) List(ctx context.Context, warehouseID string) ([]*entity.ReorderRule, error) {
	var w where
	if warehouseID != "" {
		w.addID(`(warehouse_id IS NULL OR warehouse_id = ?)`, warehouseID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, COALESCE(warehouse_id::text, ''), min_quantity, max_quantity, created_at, updated_at
		FROM reorder_rules`+w.sql()+` ORDER BY product_id, warehouse_id NULLS FIRST`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list reorder rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReorderRule
	for rows.Next() {
		var rule entity.ReorderRule
		if err := rows.Scan(&rule.ID, &rule.ProductID, &rule.WarehouseID, &rule.MinQuantity, &rule.MaxQuantity,
			&rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reorder rule: %w", err)
		}
		list = append(list, &rule)
	}
	return list, rows.Err()
}
