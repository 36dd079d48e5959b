package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = productRepo{}
	_ repository.WarehouseRepository   = warehouseRepo{}
	_ repository.LocationRepository    = locationRepo{}
	_ repository.PartnerRepository     = partnerRepo{}
	_ repository.ReorderRuleRepository = ruleRepo{}
)

type productRepo struct{ sc scope }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.sc.lock()()
	for _, other := range r.sc.s.products {
		if strings.EqualFold(other.SKU, p.SKU) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
	}
	c := *p
	r.sc.s.products[p.ID] = &c
	return nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.sc.lock()()
	if _, ok := r.sc.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.sc.s.products {
		if id != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
	}
	c := *p
	r.sc.s.products[p.ID] = &c
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.sc.rlock()()
	p, ok := r.sc.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.sc.rlock()()
	for _, p := range r.sc.s.products {
		if strings.EqualFold(p.SKU, sku) {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.sc.rlock()()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*entity.Product, 0, len(r.sc.s.products))
	for _, p := range r.sc.s.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset), nil
}

type warehouseRepo struct{ sc scope }

func (r warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	defer r.sc.lock()()
	for _, other := range r.sc.s.warehouses {
		if strings.EqualFold(other.Code, w.Code) {
			return fmt.Errorf("%w: bodega %s", domain.ErrDuplicate, w.Code)
		}
	}
	c := *w
	r.sc.s.warehouses[w.ID] = &c
	return nil
}

func (r warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	defer r.sc.rlock()()
	w, ok := r.sc.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r warehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Warehouse, 0, len(r.sc.s.warehouses))
	for _, w := range r.sc.s.warehouses {
		c := *w
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type locationRepo struct{ sc scope }

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	defer r.sc.lock()()
	for _, other := range r.sc.s.locations {
		if other.WarehouseID == l.WarehouseID && strings.EqualFold(other.Code, l.Code) {
			return fmt.Errorf("%w: ubicación %s", domain.ErrDuplicate, l.Code)
		}
	}
	c := *l
	r.sc.s.locations[l.ID] = &c
	return nil
}

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	defer r.sc.rlock()()
	l, ok := r.sc.s.locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r locationRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Location, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Location, 0)
	for _, l := range r.sc.s.locations {
		if warehouseID != "" && l.WarehouseID != warehouseID {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type partnerRepo struct{ sc scope }

func (r partnerRepo) Create(_ context.Context, p *entity.Partner) error {
	defer r.sc.lock()()
	for _, other := range r.sc.s.partners {
		if p.Code != "" && other.Kind == p.Kind && strings.EqualFold(other.Code, p.Code) {
			return fmt.Errorf("%w: tercero %s", domain.ErrDuplicate, p.Code)
		}
	}
	c := *p
	r.sc.s.partners[p.ID] = &c
	return nil
}

func (r partnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	defer r.sc.rlock()()
	p, ok := r.sc.s.partners[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r partnerRepo) List(_ context.Context, kind entity.PartnerKind) ([]*entity.Partner, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Partner, 0)
	for _, p := range r.sc.s.partners {
		if kind != "" && p.Kind != kind {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type ruleRepo struct{ sc scope }

func (r ruleRepo) Create(_ context.Context, rule *entity.ReorderRule) error {
	defer r.sc.lock()()
	for _, other := range r.sc.s.rules {
		if other.ProductID == rule.ProductID && other.WarehouseID == rule.WarehouseID {
			return fmt.Errorf("%w: regla de reposición", domain.ErrDuplicate)
		}
	}
	c := *rule
	r.sc.s.rules[rule.ID] = &c
	return nil
}

func (r ruleRepo) List(_ context.Context, warehouseID string) ([]*entity.ReorderRule, error) {
	defer r.sc.rlock()()
	out := make([]*entity.ReorderRule, 0)
	for _, rule := range r.sc.s.rules {
		if warehouseID != "" && rule.WarehouseID != "" && rule.WarehouseID != warehouseID {
			continue
		}
		c := *rule
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
