package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// PartnerHandler terceros (proveedores y clientes) y reglas de reorden.
type PartnerHandler struct {
	partners *usecase.PartnerUseCase
	rules    *usecase.ReorderRuleUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(partners *usecase.PartnerUseCase, rules *usecase.ReorderRuleUseCase) *PartnerHandler {
	return &PartnerHandler{partners: partners, rules: rules}
}

// Create godoc
// @Summary      Crear tercero
// @Tags         partners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartnerRequest  true  "Datos del tercero"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/partners [post]
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartnerRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.partners.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, out, "tercero creado")
}

// List godoc
// @Summary      Listar terceros
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "SUPPLIER | CUSTOMER"
// @Success      200  {object}  dto.Envelope
// @Router       /api/partners [get]
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	out, err := h.partners.List(c.UserContext(), c.Query("kind"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// CreateRule godoc
// @Summary      Crear regla de reorden
// @Description  Sin warehouse_id la regla aplica a todas las bodegas.
// @Tags         reorder-rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReorderRuleRequest  true  "Mínimo y máximo"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reorder-rules [post]
func (h *PartnerHandler) CreateRule(c *fiber.Ctx) error {
	var in dto.CreateReorderRuleRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.rules.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, out, "regla creada")
}

// ListRules godoc
// @Summary      Listar reglas de reorden
// @Tags         reorder-rules
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.Envelope
// @Router       /api/reorder-rules [get]
func (h *PartnerHandler) ListRules(c *fiber.Ctx) error {
	out, err := h.rules.List(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}
