package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ── Bodegas y ubicaciones ─────────────────────────────────────────────────────

func TestWarehouseUseCase_CreateYCodigoDuplicado(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := usecase.NewWarehouseUseCase(store.Warehouses(), store.Locations())

	w, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "wh1", Name: "Principal"})
	require.NoError(t, err)
	assert.Equal(t, "WH1", w.Code)
	assert.True(t, w.IsActive)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "WH1", Name: "Otra"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWarehouseUseCase_UbicacionPadreMismaBodega(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := usecase.NewWarehouseUseCase(store.Warehouses(), store.Locations())

	w1, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "WH1", Name: "Principal"})
	require.NoError(t, err)
	w2, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "WH2", Name: "Sucursal"})
	require.NoError(t, err)

	zone, err := uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w1.ID, Code: "A", Name: "Zona A"})
	require.NoError(t, err)
	shelf, err := uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w1.ID, ParentID: zone.ID, Code: "A-01", Name: "Estante 1"})
	require.NoError(t, err)
	assert.Equal(t, zone.ID, shelf.ParentID)

	_, err = uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w2.ID, ParentID: zone.ID, Code: "B", Name: "Zona B"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w1.ID, ParentID: "nope", Code: "C", Name: "Zona C"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: "nope", Code: "D", Name: "Zona D"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// mismo código en otra bodega es válido
	_, err = uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w2.ID, Code: "A", Name: "Zona A"})
	require.NoError(t, err)
	_, err = uc.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w1.ID, Code: "a", Name: "Repetida"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	locs, err := uc.ListLocations(ctx, w1.ID)
	require.NoError(t, err)
	assert.Len(t, locs, 2)
}

// ── Productos ─────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateUpdateYBusqueda(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := usecase.NewProductUseCase(store.Products())

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)
	assert.Equal(t, "UND", p.UnitMeasure)
	assert.True(t, p.IsActive)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "tor-001", Name: "Otro"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "TUE-001", Name: "Tuerca", UnitMeasure: "CAJA"})
	require.NoError(t, err)

	inactive := false
	name := "Tornillo hexagonal"
	upd, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo hexagonal", upd.Name)
	assert.False(t, upd.IsActive)
	assert.Equal(t, "TOR-001", upd.SKU)

	found, err := uc.List(ctx, "hexa", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	page2, err := uc.List(ctx, "", dto.PageRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	_, err = uc.Update(ctx, "nope", dto.UpdateProductRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ── Terceros y reglas ─────────────────────────────────────────────────────────

func TestPartnerUseCase_CodigoUnicoPorTipo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := usecase.NewPartnerUseCase(store.Partners())

	_, err := uc.Create(ctx, dto.CreatePartnerRequest{Kind: "SUPPLIER", Code: "T01", Name: "Aceros SA"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreatePartnerRequest{Kind: "customer", Code: "T01", Name: "Ferretería"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreatePartnerRequest{Kind: "SUPPLIER", Code: "t01", Name: "Duplicado"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	_, err = uc.Create(ctx, dto.CreatePartnerRequest{Kind: "OTRO", Code: "X", Name: "X"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	suppliers, err := uc.List(ctx, "SUPPLIER")
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)
	all, err := uc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReorderRuleUseCase_Validaciones(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	products := usecase.NewProductUseCase(store.Products())
	warehouses := usecase.NewWarehouseUseCase(store.Warehouses(), store.Locations())
	uc := usecase.NewReorderRuleUseCase(store.ReorderRules(), store.Products(), store.Warehouses())

	p, err := products.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)
	w, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{Code: "WH1", Name: "Principal"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateReorderRuleRequest{ProductID: p.ID, MinQuantity: 10, MaxQuantity: 5})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = uc.Create(ctx, dto.CreateReorderRuleRequest{ProductID: "nope", MinQuantity: 10})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = uc.Create(ctx, dto.CreateReorderRuleRequest{ProductID: p.ID, WarehouseID: "nope", MinQuantity: 10})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Create(ctx, dto.CreateReorderRuleRequest{ProductID: p.ID, MinQuantity: 10, MaxQuantity: 40})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateReorderRuleRequest{ProductID: p.ID, WarehouseID: w.ID, MinQuantity: 3})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateReorderRuleRequest{ProductID: p.ID, WarehouseID: w.ID, MinQuantity: 4})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	rules, err := uc.List(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}
