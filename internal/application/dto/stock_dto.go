package dto

import "time"

// StockLine saldo de una posición con datos maestros.
type StockLine struct {
	ProductID      string    `json:"product_id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	UnitMeasure    string    `json:"uom"`
	WarehouseID    string    `json:"warehouse_id"`
	WarehouseCode  string    `json:"warehouse_code"`
	WarehouseName  string    `json:"warehouse_name"`
	LocationID     string    `json:"location_id"`
	LocationCode   string    `json:"location_code"`
	LocationName   string    `json:"location_name"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StockOverview GET /stock/overview.
type StockOverview struct {
	Summary OverviewSummary `json:"summary"`
	Items   []StockLine     `json:"items"`
}

// OverviewSummary conteo de posiciones con y sin stock.
type OverviewSummary struct {
	TotalLocations     int `json:"total_locations"`
	LocationsWithStock int `json:"locations_with_stock"`
	LocationsEmpty     int `json:"locations_empty"`
}

// WarehouseStock GET /stock/by-warehouse: totales agrupados por bodega.
type WarehouseStock struct {
	WarehouseID    string `json:"warehouse_id"`
	WarehouseCode  string `json:"warehouse_code"`
	WarehouseName  string `json:"warehouse_name"`
	Address        string `json:"address,omitempty"`
	TotalQuantity  int64  `json:"total_quantity"`
	UniqueProducts int    `json:"unique_products"`
	LocationCount  int    `json:"location_count"`
}

// ProductStock GET /stock/by-product: un producto con todas sus posiciones.
type ProductStock struct {
	ProductID          string      `json:"product_id"`
	SKU                string      `json:"sku"`
	ProductName        string      `json:"product_name"`
	UnitMeasure        string      `json:"uom"`
	Category           string      `json:"category,omitempty"`
	TotalQuantity      int64       `json:"total_quantity"`
	AvailableLocations int         `json:"available_locations"`
	Locations          []StockLine `json:"stock_locations"`
}

// LocationStock GET /stock/by-location/:id.
type LocationStock struct {
	LocationID    string               `json:"location_id"`
	LocationCode  string               `json:"location_code"`
	LocationName  string               `json:"location_name"`
	WarehouseID   string               `json:"warehouse_id"`
	WarehouseName string               `json:"warehouse_name"`
	ParentID      string               `json:"parent_location_id,omitempty"`
	IsActive      bool                 `json:"is_active"`
	Summary       LocationStockSummary `json:"summary"`
	Items         []StockLine          `json:"stock"`
}

// LocationStockSummary totales de una ubicación.
type LocationStockSummary struct {
	TotalProducts     int   `json:"total_products"`
	ProductsWithStock int   `json:"products_with_stock"`
	TotalQuantity     int64 `json:"total_quantity"`
}

// ProductAvailability GET /stock/availability: solo saldos positivos.
type ProductAvailability struct {
	ProductID             string `json:"product_id"`
	SKU                   string `json:"sku"`
	ProductName           string `json:"product_name"`
	UnitMeasure           string `json:"uom"`
	TotalQuantity         int64  `json:"total_quantity"`
	AvailableInWarehouses int    `json:"available_in_warehouses"`
	AvailableInLocations  int    `json:"available_in_locations"`
	IsLowStock            *bool  `json:"is_low_stock,omitempty"`
}

// WarehouseStockSummary GET /stock/warehouse/:id/summary.
type WarehouseStockSummary struct {
	WarehouseID   string                `json:"warehouse_id"`
	WarehouseCode string                `json:"warehouse_code"`
	WarehouseName string                `json:"warehouse_name"`
	Address       string                `json:"address,omitempty"`
	Summary       WarehouseSummaryTotal `json:"summary"`
	Items         []StockLine           `json:"stock"`
}

// WarehouseSummaryTotal totales de una bodega.
type WarehouseSummaryTotal struct {
	TotalQuantity      int64 `json:"total_quantity"`
	UniqueProducts     int   `json:"unique_products"`
	TotalLocations     int   `json:"total_locations"`
	LocationsWithStock int   `json:"locations_with_stock"`
}
