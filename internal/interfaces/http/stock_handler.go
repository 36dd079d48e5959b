package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// StockHandler vistas de solo lectura sobre los saldos.
type StockHandler struct {
	svc *stock.Service
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *stock.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// Overview godoc
// @Summary      Saldos por producto/bodega/ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto"
// @Param        has_stock     query  bool    false  "Solo posiciones con saldo > 0"
// @Success      200  {object}  dto.Envelope
// @Router       /api/stock/overview [get]
func (h *StockHandler) Overview(c *fiber.Ctx) error {
	out, err := h.svc.Overview(c.UserContext(), stock.OverviewFilter{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		HasStock:    c.QueryBool("has_stock", false),
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// ByWarehouse godoc
// @Summary      Totales por bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.Envelope
// @Router       /api/stock/by-warehouse [get]
func (h *StockHandler) ByWarehouse(c *fiber.Ctx) error {
	out, err := h.svc.ByWarehouse(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// ByProduct godoc
// @Summary      Stock por producto con sus ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Texto en SKU o nombre"
// @Success      200  {object}  dto.Envelope
// @Router       /api/stock/by-product [get]
func (h *StockHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.svc.ByProduct(c.UserContext(), c.Query("search"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// ByLocation godoc
// @Summary      Stock de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/by-location/{id} [get]
func (h *StockHandler) ByLocation(c *fiber.Ctx) error {
	out, err := h.svc.ByLocation(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// Availability godoc
// @Summary      Disponibilidad por producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id         query  string  false  "Bodega"
// @Param        low_stock_threshold  query  int     false  "Marca is_low_stock cuando total <= umbral"
// @Success      200  {object}  dto.Envelope
// @Router       /api/stock/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	var threshold *int64
	if raw := c.Query("low_stock_threshold"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return writeError(c, fmt.Errorf("%w: low_stock_threshold debe ser un entero >= 0", domain.ErrValidation))
		}
		threshold = &n
	}
	out, err := h.svc.Availability(c.UserContext(), c.Query("warehouse_id"), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// WarehouseSummary godoc
// @Summary      Resumen de stock de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/warehouse/{id}/summary [get]
func (h *StockHandler) WarehouseSummary(c *fiber.Ctx) error {
	out, err := h.svc.WarehouseSummary(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}
