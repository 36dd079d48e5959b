package dto

import "time"

// DashboardKPIs respuesta de GET /api/dashboard/kpis.
type DashboardKPIs struct {
	WarehouseID     string         `json:"warehouse_id,omitempty"`
	ProductsInStock int            `json:"products_in_stock"`
	LowStockItems   int            `json:"low_stock_items"`    // bajo el mínimo de su regla
	OutOfStockItems int            `json:"out_of_stock_items"` // con regla y saldo 0
	TotalQuantity   int64          `json:"total_quantity"`
	DraftDocuments  map[string]int `json:"draft_documents"` // por tipo de documento
	DateLabel       string         `json:"date_label"` // ej: "Octubre 2026"
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ReplenishmentSuggestion producto por debajo de su mínimo.
type ReplenishmentSuggestion struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	WarehouseID       string `json:"warehouse_id,omitempty"`
	WarehouseName     string `json:"warehouse_name,omitempty"`
	CurrentStock      int64  `json:"current_stock"`
	MinQuantity       int64  `json:"min_quantity"`
	MaxQuantity       int64  `json:"max_quantity"`
	Deficit           int64  `json:"deficit"`
	SuggestedQuantity int64  `json:"suggested_quantity"`
	Priority          int    `json:"priority"` // 1 = más urgente
}
