package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc            *appanalytics.DashboardUseCase
	replenishment *appanalytics.ReplenishmentUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, replenishment *appanalytics.ReplenishmentUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, replenishment: replenishment}
}

// GetKPIs devuelve los indicadores de inventario.
// GET /api/dashboard/kpis?warehouse_id=
//
// Respuesta: DashboardKPIs (products_in_stock, low_stock_items, out_of_stock_items,
// total_quantity, draft_documents por tipo, date_label).
func (h *DashboardHandler) GetKPIs(c *fiber.Ctx) error {
	out, err := h.uc.GetKPIs(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// GetReplenishment godoc
// @Summary      Lista de reposición
// @Description  Productos bajo el mínimo de su regla con la cantidad sugerida de pedido.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega. Vacío = todas."
// @Success      200  {object}  dto.Envelope
// @Router       /api/dashboard/replenishment [get]
func (h *DashboardHandler) GetReplenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}
