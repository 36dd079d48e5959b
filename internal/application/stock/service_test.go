package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos bodegas con stock posteado por el servicio del libro
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	ledger *ledger.Service
	svc    *stock.Service
}

func newFixture(t *testing.T, c stock.ViewCache) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Code: "WH1", Name: "Principal", IsActive: true}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Code: "WH2", Name: "Sucursal", IsActive: true}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l1", WarehouseID: "w1", Code: "A-01", Name: "Pasillo A", IsActive: true}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l1b", WarehouseID: "w1", Code: "B-01", Name: "Pasillo B", IsActive: true}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l2", WarehouseID: "w2", Code: "A-01", Name: "Pasillo A", IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p", SKU: "SKU-P", Name: "Tornillo", UnitMeasure: "UND", IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "q", SKU: "SKU-Q", Name: "Tuerca", UnitMeasure: "UND", IsActive: true}))

	led := ledger.NewService(store, store.Ledger(), store.Balances(), nil, zerolog.Nop())
	svc := stock.NewService(store.Balances(), store.Products(), store.Warehouses(), store.Locations(), c, zerolog.Nop())
	led.Subscribe(svc)
	return &fixture{ctx: ctx, store: store, ledger: led, svc: svc}
}

func (f *fixture) post(t *testing.T, p, w, l string, mt entity.MovementType, qty int64) {
	t.Helper()
	_, err := f.ledger.PostMovement(f.ctx, "user-1", ledger.Movement{
		Key:          entity.BalanceKey{ProductID: p, WarehouseID: w, LocationID: l},
		MovementType: mt,
		Quantity:     qty,
		DocumentType: entity.DocumentAdjustment,
		DocumentID:   "doc-1",
	})
	require.NoError(t, err)
}

// seed p: 10 en w1/l1, 5 en w1/l1b, 0 en w2/l2 (entró y salió); q: 3 en w2/l2.
func (f *fixture) seed(t *testing.T) {
	f.post(t, "p", "w1", "l1", entity.MovementIn, 10)
	f.post(t, "p", "w1", "l1b", entity.MovementIn, 5)
	f.post(t, "p", "w2", "l2", entity.MovementIn, 4)
	f.post(t, "p", "w2", "l2", entity.MovementOut, 4)
	f.post(t, "q", "w2", "l2", entity.MovementIn, 3)
}

// ──────────────────────────────────────────────────────────────────────────────

func TestOverview_ResumenYFiltros(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	all, err := f.svc.Overview(f.ctx, stock.OverviewFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Summary.TotalLocations)
	assert.Equal(t, 3, all.Summary.LocationsWithStock)
	assert.Equal(t, 1, all.Summary.LocationsEmpty)
	require.Len(t, all.Items, 4)
	assert.Equal(t, "WH1", all.Items[0].WarehouseCode)
	assert.Equal(t, "SKU-P", all.Items[0].SKU)
	assert.Equal(t, "A-01", all.Items[0].LocationCode)

	inStock, err := f.svc.Overview(f.ctx, stock.OverviewFilter{WarehouseID: "w2", HasStock: true})
	require.NoError(t, err)
	require.Len(t, inStock.Items, 1)
	assert.Equal(t, "q", inStock.Items[0].ProductID)
	assert.Equal(t, int64(3), inStock.Items[0].QuantityOnHand)
}

func TestByWarehouse_TotalesPorBodega(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	out, err := f.svc.ByWarehouse(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "WH1", out[0].WarehouseCode)
	assert.Equal(t, int64(15), out[0].TotalQuantity)
	assert.Equal(t, 1, out[0].UniqueProducts)
	assert.Equal(t, 2, out[0].LocationCount)

	assert.Equal(t, "WH2", out[1].WarehouseCode)
	assert.Equal(t, int64(3), out[1].TotalQuantity)
	assert.Equal(t, 2, out[1].UniqueProducts)
}

func TestByProduct_BusquedaPorSKU(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	out, err := f.svc.ByProduct(f.ctx, "sku-p")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(15), out[0].TotalQuantity)
	assert.Equal(t, 2, out[0].AvailableLocations)
	assert.Len(t, out[0].Locations, 3)
}

func TestByLocation_DetalleYNoEncontrada(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	out, err := f.svc.ByLocation(f.ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, "Sucursal", out.WarehouseName)
	assert.Equal(t, 2, out.Summary.TotalProducts)
	assert.Equal(t, 1, out.Summary.ProductsWithStock)
	assert.Equal(t, int64(3), out.Summary.TotalQuantity)

	_, err = f.svc.ByLocation(f.ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAvailability_OrdenYBajoStock(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	threshold := int64(5)
	out, err := f.svc.Availability(f.ctx, "", &threshold)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "SKU-P", out[0].SKU)
	assert.Equal(t, int64(15), out[0].TotalQuantity)
	assert.Equal(t, 1, out[0].AvailableInWarehouses)
	assert.Equal(t, 2, out[0].AvailableInLocations)
	require.NotNil(t, out[0].IsLowStock)
	assert.False(t, *out[0].IsLowStock)

	assert.Equal(t, "SKU-Q", out[1].SKU)
	require.NotNil(t, out[1].IsLowStock)
	assert.True(t, *out[1].IsLowStock)

	noThreshold, err := f.svc.Availability(f.ctx, "w1", nil)
	require.NoError(t, err)
	require.Len(t, noThreshold, 1)
	assert.Nil(t, noThreshold[0].IsLowStock)
}

func TestWarehouseSummary(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	out, err := f.svc.WarehouseSummary(f.ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Summary.TotalQuantity)
	assert.Equal(t, 2, out.Summary.UniqueProducts)
	assert.Equal(t, 2, out.Summary.TotalLocations)
	assert.Equal(t, 1, out.Summary.LocationsWithStock)

	_, err = f.svc.WarehouseSummary(f.ctx, "w9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDescribeEntries_DatosLegibles(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	entries, total, err := f.ledger.History(f.ctx, repository.LedgerFilter{ProductID: "q"})
	require.NoError(t, err)
	require.Equal(t, 1, total)

	out, err := f.svc.DescribeEntries(f.ctx, entries)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SKU-Q", out[0].SKU)
	assert.Equal(t, "WH2", out[0].WarehouseCode)
	assert.Equal(t, "A-01", out[0].LocationCode)
	assert.Equal(t, "IN", out[0].MovementType)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché Redis: las vistas se sirven del caché hasta el siguiente posteo
// ──────────────────────────────────────────────────────────────────────────────

func TestByWarehouse_CacheInvalidadoAlPostear(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newFixture(t, cache.NewRedisCache(rdb, "stock", time.Minute))
	f.post(t, "p", "w1", "l1", entity.MovementIn, 10)

	first, err := f.svc.ByWarehouse(f.ctx, "w1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, int64(10), first[0].TotalQuantity)
	assert.NotEmpty(t, mr.Keys())

	f.post(t, "p", "w1", "l1", entity.MovementIn, 7)

	second, err := f.svc.ByWarehouse(f.ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(17), second[0].TotalQuantity)
}

// postDuringSet ejecuta beforeSet (una vez) entre el fallo de lectura y la escritura.
type postDuringSet struct {
	*cache.RedisCache
	beforeSet func()
}

func (c *postDuringSet) Set(ctx context.Context, name string, version int64, v any) error {
	if c.beforeSet != nil {
		hook := c.beforeSet
		c.beforeSet = nil
		hook()
	}
	return c.RedisCache.Set(ctx, name, version, v)
}

func TestByWarehouse_PosteoEntreLecturaYEscrituraNoDejaVistaVieja(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := &postDuringSet{RedisCache: cache.NewRedisCache(rdb, "stock", time.Minute)}
	f := newFixture(t, c)
	f.post(t, "p", "w1", "l1", entity.MovementIn, 10)
	c.beforeSet = func() { f.post(t, "p", "w1", "l1", entity.MovementIn, 7) }

	first, err := f.svc.ByWarehouse(f.ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), first[0].TotalQuantity)

	second, err := f.svc.ByWarehouse(f.ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(17), second[0].TotalQuantity)
}

func TestAvailability_FalloDeCacheNoRompeLaConsulta(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newFixture(t, cache.NewRedisCache(rdb, "stock", time.Minute))
	f.post(t, "q", "w2", "l2", entity.MovementIn, 3)
	mr.Close()

	out, err := f.svc.Availability(f.ctx, "", nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].TotalQuantity)
}
