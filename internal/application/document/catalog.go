package document

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Catalog repositorios de datos maestros que consultan las políticas.
type Catalog struct {
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Locations  repository.LocationRepository
	Partners   repository.PartnerRepository
}

type catalog struct {
	Catalog
}

// warehouse referencias de cabecera inexistentes son NotFound.
func (c *catalog) warehouse(ctx context.Context, id, field string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s es requerido", domain.ErrValidation, field)
	}
	w, err := c.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return w, nil
}

func (c *catalog) partner(ctx context.Context, id string, kind entity.PartnerKind) (*entity.Partner, error) {
	p, err := c.Partners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: tercero %s", domain.ErrNotFound, id)
	}
	if p.Kind != kind {
		return nil, fmt.Errorf("%w: el tercero %s no es %s", domain.ErrValidation, p.Name, kind)
	}
	return p, nil
}

// product referencias de línea inexistentes o inactivas son ValidationError.
func (c *catalog) product(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrValidation)
	}
	p, err := c.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrValidation, id)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrValidation, p.SKU)
	}
	return p, nil
}

func (c *catalog) locationIn(ctx context.Context, id, warehouseID, field string) (*entity.Location, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s es requerido", domain.ErrValidation, field)
	}
	l, err := c.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: ubicación %s no existe", domain.ErrValidation, id)
	}
	if l.WarehouseID != warehouseID {
		return nil, fmt.Errorf("%w: la ubicación %s no pertenece a la bodega del documento", domain.ErrValidation, l.Code)
	}
	if !l.IsActive {
		return nil, fmt.Errorf("%w: ubicación %s inactiva", domain.ErrValidation, l.Code)
	}
	return l, nil
}
