// Package stock vistas de solo lectura sobre los saldos, unidas con datos maestros.
package stock

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ViewCache caché de lectura de las vistas agregadas. Get devuelve la versión
// vigente al momento del fallo; Set escribe bajo esa versión.
type ViewCache interface {
	Get(ctx context.Context, name string, dst any) (version int64, hit bool, err error)
	Set(ctx context.Context, name string, version int64, v any) error
	Invalidate(ctx context.Context) error
}

// OverviewFilter filtros de GET /stock/overview.
type OverviewFilter struct {
	WarehouseID string
	ProductID   string
	HasStock    bool
}

// Service consultas de stock.
type Service struct {
	balances   repository.BalanceReader
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	locations  repository.LocationRepository
	cache      ViewCache
	log        zerolog.Logger
}

// NewService construye el servicio. cache nil deshabilita el caché.
func NewService(
	balances repository.BalanceReader,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	locations repository.LocationRepository,
	cache ViewCache,
	log zerolog.Logger,
) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{
		balances:   balances,
		products:   products,
		warehouses: warehouses,
		locations:  locations,
		cache:      cache,
		log:        log.With().Str("component", "stock").Logger(),
	}
}

// BalancesChanged invalida las vistas cacheadas tras cada lote posteado.
func (s *Service) BalancesChanged(ctx context.Context, keys []entity.BalanceKey) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Int("keys", len(keys)).Msg("no se pudo invalidar el caché de stock")
	}
}

// ── Datos maestros ──────────────────────────────────────────────────────────

type masters struct {
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	locations  map[string]*entity.Location
}

// loadMasters carga en paralelo productos, bodegas y ubicaciones.
func (s *Service) loadMasters(ctx context.Context) (*masters, error) {
	m := &masters{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.products.List(gctx, repository.ProductFilter{})
		if err != nil {
			return err
		}
		m.products = make(map[string]*entity.Product, len(list))
		for _, p := range list {
			m.products[p.ID] = p
		}
		return nil
	})
	g.Go(func() error {
		list, err := s.warehouses.List(gctx)
		if err != nil {
			return err
		}
		m.warehouses = make(map[string]*entity.Warehouse, len(list))
		for _, w := range list {
			m.warehouses[w.ID] = w
		}
		return nil
	})
	g.Go(func() error {
		list, err := s.locations.ListByWarehouse(gctx, "")
		if err != nil {
			return err
		}
		m.locations = make(map[string]*entity.Location, len(list))
		for _, l := range list {
			m.locations[l.ID] = l
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cargar datos maestros: %w", err)
	}
	return m, nil
}

func (m *masters) line(b entity.Balance) dto.StockLine {
	out := dto.StockLine{
		ProductID:      b.ProductID,
		WarehouseID:    b.WarehouseID,
		LocationID:     b.LocationID,
		QuantityOnHand: b.QuantityOnHand,
		UpdatedAt:      b.UpdatedAt,
	}
	if p := m.products[b.ProductID]; p != nil {
		out.SKU, out.ProductName, out.UnitMeasure = p.SKU, p.Name, p.UnitMeasure
	}
	if w := m.warehouses[b.WarehouseID]; w != nil {
		out.WarehouseCode, out.WarehouseName = w.Code, w.Name
	}
	if l := m.locations[b.LocationID]; l != nil {
		out.LocationCode, out.LocationName = l.Code, l.Name
	}
	return out
}

func (m *masters) lines(balances []entity.Balance) []dto.StockLine {
	out := make([]dto.StockLine, 0, len(balances))
	for _, b := range balances {
		out = append(out, m.line(b))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WarehouseCode != b.WarehouseCode {
			return a.WarehouseCode < b.WarehouseCode
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.LocationCode < b.LocationCode
	})
	return out
}

// ── Vistas ──────────────────────────────────────────────────────────────────

// Overview todas las posiciones con su saldo.
func (s *Service) Overview(ctx context.Context, f OverviewFilter) (*dto.StockOverview, error) {
	balances, err := s.balances.List(ctx, repository.BalanceFilter{
		ProductID:   f.ProductID,
		WarehouseID: f.WarehouseID,
		OnlyInStock: f.HasStock,
	})
	if err != nil {
		return nil, err
	}
	m, err := s.loadMasters(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.StockOverview{Items: m.lines(balances)}
	out.Summary.TotalLocations = len(balances)
	for _, b := range balances {
		if b.QuantityOnHand > 0 {
			out.Summary.LocationsWithStock++
		}
	}
	out.Summary.LocationsEmpty = out.Summary.TotalLocations - out.Summary.LocationsWithStock
	return out, nil
}

// ByWarehouse totales por bodega. warehouseID vacío = todas.
func (s *Service) ByWarehouse(ctx context.Context, warehouseID string) ([]dto.WarehouseStock, error) {
	name := "by-warehouse:" + warehouseID
	var out []dto.WarehouseStock
	version, hit := s.cached(ctx, name, &out)
	if hit {
		return out, nil
	}

	balances, err := s.balances.List(ctx, repository.BalanceFilter{WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	warehouses, err := s.warehouses.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*dto.WarehouseStock)
	products := make(map[string]map[string]bool)
	for _, b := range balances {
		ws, ok := byID[b.WarehouseID]
		if !ok {
			ws = &dto.WarehouseStock{WarehouseID: b.WarehouseID}
			byID[b.WarehouseID] = ws
			products[b.WarehouseID] = make(map[string]bool)
		}
		ws.TotalQuantity += b.QuantityOnHand
		ws.LocationCount++
		products[b.WarehouseID][b.ProductID] = true
	}
	out = make([]dto.WarehouseStock, 0, len(byID))
	for _, w := range warehouses {
		ws, ok := byID[w.ID]
		if !ok {
			continue
		}
		ws.WarehouseCode, ws.WarehouseName, ws.Address = w.Code, w.Name, w.Address
		ws.UniqueProducts = len(products[w.ID])
		out = append(out, *ws)
	}

	s.store(ctx, name, version, out)
	return out, nil
}

// ByProduct productos activos con todas sus posiciones. search filtra por SKU o nombre.
func (s *Service) ByProduct(ctx context.Context, search string) ([]dto.ProductStock, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{Search: search, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	balances, err := s.balances.List(ctx, repository.BalanceFilter{})
	if err != nil {
		return nil, err
	}
	m, err := s.loadMasters(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string][]entity.Balance)
	for _, b := range balances {
		byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
	}
	out := make([]dto.ProductStock, 0, len(products))
	for _, p := range products {
		ps := dto.ProductStock{
			ProductID:   p.ID,
			SKU:         p.SKU,
			ProductName: p.Name,
			UnitMeasure: p.UnitMeasure,
			Category:    p.Category,
			Locations:   m.lines(byProduct[p.ID]),
		}
		for _, b := range byProduct[p.ID] {
			ps.TotalQuantity += b.QuantityOnHand
			if b.QuantityOnHand > 0 {
				ps.AvailableLocations++
			}
		}
		out = append(out, ps)
	}
	return out, nil
}

// ByLocation detalle de una ubicación.
func (s *Service) ByLocation(ctx context.Context, locationID string) (*dto.LocationStock, error) {
	loc, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
	}
	balances, err := s.balances.List(ctx, repository.BalanceFilter{LocationID: locationID})
	if err != nil {
		return nil, err
	}
	m, err := s.loadMasters(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.LocationStock{
		LocationID:   loc.ID,
		LocationCode: loc.Code,
		LocationName: loc.Name,
		WarehouseID:  loc.WarehouseID,
		ParentID:     loc.ParentID,
		IsActive:     loc.IsActive,
		Items:        m.lines(balances),
	}
	if w := m.warehouses[loc.WarehouseID]; w != nil {
		out.WarehouseName = w.Name
	}
	out.Summary.TotalProducts = len(balances)
	for _, b := range balances {
		out.Summary.TotalQuantity += b.QuantityOnHand
		if b.QuantityOnHand > 0 {
			out.Summary.ProductsWithStock++
		}
	}
	return out, nil
}

// Availability productos con saldo positivo, de mayor a menor cantidad.
// lowStockThreshold nil no marca bajo stock.
func (s *Service) Availability(ctx context.Context, warehouseID string, lowStockThreshold *int64) ([]dto.ProductAvailability, error) {
	name := "availability:" + warehouseID
	if lowStockThreshold != nil {
		name += ":" + strconv.FormatInt(*lowStockThreshold, 10)
	}
	var out []dto.ProductAvailability
	version, hit := s.cached(ctx, name, &out)
	if hit {
		return out, nil
	}

	balances, err := s.balances.List(ctx, repository.BalanceFilter{WarehouseID: warehouseID, OnlyInStock: true})
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	agg := make(map[string]*dto.ProductAvailability)
	warehouses := make(map[string]map[string]bool)
	for _, b := range balances {
		p := byID[b.ProductID]
		if p == nil {
			continue
		}
		a, ok := agg[p.ID]
		if !ok {
			a = &dto.ProductAvailability{ProductID: p.ID, SKU: p.SKU, ProductName: p.Name, UnitMeasure: p.UnitMeasure}
			agg[p.ID] = a
			warehouses[p.ID] = make(map[string]bool)
		}
		a.TotalQuantity += b.QuantityOnHand
		a.AvailableInLocations++
		warehouses[p.ID][b.WarehouseID] = true
	}
	out = make([]dto.ProductAvailability, 0, len(agg))
	for id, a := range agg {
		a.AvailableInWarehouses = len(warehouses[id])
		if lowStockThreshold != nil {
			low := a.TotalQuantity <= *lowStockThreshold
			a.IsLowStock = &low
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].SKU < out[j].SKU
	})

	s.store(ctx, name, version, out)
	return out, nil
}

// WarehouseSummary totales y posiciones de una bodega.
func (s *Service) WarehouseSummary(ctx context.Context, warehouseID string) (*dto.WarehouseStockSummary, error) {
	w, err := s.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}
	balances, err := s.balances.List(ctx, repository.BalanceFilter{WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	m, err := s.loadMasters(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.WarehouseStockSummary{
		WarehouseID:   w.ID,
		WarehouseCode: w.Code,
		WarehouseName: w.Name,
		Address:       w.Address,
		Items:         m.lines(balances),
	}
	products := make(map[string]bool)
	for _, b := range balances {
		out.Summary.TotalQuantity += b.QuantityOnHand
		if b.QuantityOnHand > 0 {
			out.Summary.LocationsWithStock++
		}
		products[b.ProductID] = true
	}
	out.Summary.UniqueProducts = len(products)
	out.Summary.TotalLocations = len(balances)
	return out, nil
}

// DescribeEntries asientos del libro con SKU, bodega y ubicación legibles.
func (s *Service) DescribeEntries(ctx context.Context, entries []*entity.LedgerEntry) ([]dto.LedgerEntryResponse, error) {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	if len(entries) == 0 {
		return out, nil
	}
	m, err := s.loadMasters(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		r := dto.LedgerEntryResponse{
			ID:             e.ID,
			ProductID:      e.ProductID,
			WarehouseID:    e.WarehouseID,
			LocationID:     e.LocationID,
			DocumentType:   string(e.DocumentType),
			DocumentID:     e.DocumentID,
			DocumentLineID: e.DocumentLineID,
			MovementType:   string(e.MovementType),
			Quantity:       e.Quantity,
			Note:           e.Note,
			CreatedBy:      e.CreatedBy,
			CreatedAt:      e.CreatedAt,
		}
		if p := m.products[e.ProductID]; p != nil {
			r.SKU, r.ProductName = p.SKU, p.Name
		}
		if w := m.warehouses[e.WarehouseID]; w != nil {
			r.WarehouseCode = w.Code
		}
		if l := m.locations[e.LocationID]; l != nil {
			r.LocationCode = l.Code
		}
		out = append(out, r)
	}
	return out, nil
}

// ── Caché ───────────────────────────────────────────────────────────────────

// cached un fallo del caché nunca rompe la consulta: se registra y se recalcula.
// Versión negativa = no guardar el resultado.
func (s *Service) cached(ctx context.Context, name string, dst any) (int64, bool) {
	version, hit, err := s.cache.Get(ctx, name, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("view", name).Msg("lectura de caché fallida")
		return -1, false
	}
	return version, hit
}

func (s *Service) store(ctx context.Context, name string, version int64, v any) {
	if version < 0 {
		return
	}
	if err := s.cache.Set(ctx, name, version, v); err != nil {
		s.log.Warn().Err(err).Str("view", name).Msg("escritura de caché fallida")
	}
}

type noCache struct{}

func (noCache) Get(context.Context, string, any) (int64, bool, error) { return 0, false, nil }
func (noCache) Set(context.Context, string, int64, any) error        { return nil }
func (noCache) Invalidate(context.Context) error                     { return nil }
