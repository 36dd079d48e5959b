package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovesHandler historial de movimientos. El libro es la única fuente.
type MovesHandler struct {
	ledger    *ledger.Service
	describer EntryDescriber
}

// NewMovesHandler construye el handler.
func NewMovesHandler(ledgerSvc *ledger.Service, describer EntryDescriber) *MovesHandler {
	return &MovesHandler{ledger: ledgerSvc, describer: describer}
}

// History godoc
// @Summary      Historial de movimientos del libro
// @Tags         moves
// @Security     Bearer
// @Produce      json
// @Param        document_type  query  string  false  "RECEIPT | DELIVERY | INTERNAL_TRANSFER | ADJUSTMENT"
// @Param        movement_type  query  string  false  "IN | OUT | TRANSFER_IN | TRANSFER_OUT | ADJUSTMENT_POS | ADJUSTMENT_NEG"
// @Param        product_id     query  string  false  "Producto"
// @Param        warehouse_id   query  string  false  "Bodega"
// @Param        location_id    query  string  false  "Ubicación"
// @Param        from           query  string  false  "Desde"
// @Param        to             query  string  false  "Hasta"
// @Param        page           query  int     false  "Página"  default(1)
// @Param        limit          query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope
// @Router       /api/moves/history [get]
func (h *MovesHandler) History(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	f := repository.LedgerFilter{
		ProductID:    c.Query("product_id"),
		WarehouseID:  c.Query("warehouse_id"),
		LocationID:   c.Query("location_id"),
		DocumentType: entity.DocumentType(strings.ToUpper(c.Query("document_type"))),
		MovementType: entity.MovementType(strings.ToUpper(c.Query("movement_type"))),
		Limit:        page.Limit,
		Offset:       page.Offset(),
	}
	if f.From, err = timeQuery(c, "from"); err != nil {
		return writeError(c, err)
	}
	if f.To, err = timeQuery(c, "to"); err != nil {
		return writeError(c, err)
	}

	ctx := c.UserContext()
	entries, total, err := h.ledger.History(ctx, f)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.describer.DescribeEntries(ctx, entries)
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, out, dto.NewPagination(total, page))
}
