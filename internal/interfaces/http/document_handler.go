package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/document"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// EntryDescriber completa los asientos del libro con datos maestros legibles.
type EntryDescriber interface {
	DescribeEntries(ctx context.Context, entries []*entity.LedgerEntry) ([]dto.LedgerEntryResponse, error)
}

// DocumentPDFGenerator genera el comprobante imprimible de un documento.
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(ctx context.Context, d *document.Details) ([]byte, error)
}

// DocumentHandler endpoints de un tipo de documento (recepciones, entregas,
// traslados o ajustes). Hay una instancia por grupo de rutas.
type DocumentHandler struct {
	typ       entity.DocumentType
	wf        *document.Workflow
	describer EntryDescriber
	pdf       DocumentPDFGenerator
}

// NewDocumentHandler construye el handler para typ.
func NewDocumentHandler(typ entity.DocumentType, wf *document.Workflow, describer EntryDescriber, pdf DocumentPDFGenerator) *DocumentHandler {
	return &DocumentHandler{typ: typ, wf: wf, describer: describer, pdf: pdf}
}

// Create godoc
// @Summary      Crear documento en DRAFT
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.Envelope
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{docs}/create [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	in, err := h.createInput(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.wf.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, toDocumentResponse(doc), "documento creado")
}

// createInput cada tipo tiene su propio cuerpo de creación.
func (h *DocumentHandler) createInput(c *fiber.Ctx) (document.CreateInput, error) {
	in := document.CreateInput{Type: h.typ}
	switch h.typ {
	case entity.DocumentReceipt:
		var req dto.CreateReceiptRequest
		if err := bindAndValidate(c, &req); err != nil {
			return in, err
		}
		in.Number, in.WarehouseID, in.PartnerID = req.DocumentNumber, req.WarehouseID, req.SupplierID
		in.ScheduledDate, in.Remarks = req.ExpectedDate, req.Remarks
	case entity.DocumentDelivery:
		var req dto.CreateDeliveryRequest
		if err := bindAndValidate(c, &req); err != nil {
			return in, err
		}
		in.Number, in.WarehouseID, in.PartnerID = req.DocumentNumber, req.WarehouseID, req.CustomerID
		in.ScheduledDate, in.Remarks = req.ExpectedShipDate, req.Remarks
	case entity.DocumentTransfer:
		var req dto.CreateTransferRequest
		if err := bindAndValidate(c, &req); err != nil {
			return in, err
		}
		in.Number, in.WarehouseID, in.DestinationWarehouseID = req.DocumentNumber, req.SourceWarehouseID, req.DestinationWarehouseID
		in.ScheduledDate, in.Remarks = req.ScheduledDate, req.Remarks
	case entity.DocumentAdjustment:
		var req dto.CreateAdjustmentRequest
		if err := bindAndValidate(c, &req); err != nil {
			return in, err
		}
		in.Number, in.WarehouseID, in.Reason = req.DocumentNumber, req.WarehouseID, entity.AdjustmentReason(req.Reason)
		in.ScheduledDate, in.Remarks = req.AdjustmentDate, req.Remarks
	}
	return in, nil
}

// AddItem godoc
// @Summary      Agregar línea a un documento en DRAFT
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.Envelope
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{docs}/add-item [post]
func (h *DocumentHandler) AddItem(c *fiber.Ctx) error {
	var (
		docID string
		in    document.LineInput
	)
	switch h.typ {
	case entity.DocumentTransfer:
		var req dto.AddTransferItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return writeError(c, err)
		}
		docID = req.DocumentID
		in = document.LineInput{ProductID: req.ProductID, LocationID: req.SourceLocationID,
			DestinationLocationID: req.DestinationLocationID, Quantity: req.Quantity, Remarks: req.Remarks}
	case entity.DocumentAdjustment:
		var req dto.AddAdjustmentItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return writeError(c, err)
		}
		docID = req.DocumentID
		in = document.LineInput{ProductID: req.ProductID, LocationID: req.LocationID, Quantity: req.QuantityChange, Remarks: req.Remarks}
	default:
		var req dto.AddItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return writeError(c, err)
		}
		docID = req.DocumentID
		in = document.LineInput{ProductID: req.ProductID, LocationID: req.LocationID, Quantity: req.QuantityOrdered, Remarks: req.Remarks}
	}

	line, err := h.wf.AddLine(c.UserContext(), h.typ, docID, in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, toLineResponse(document.LineDetail{Line: line}), "línea agregada")
}

// RemoveItem godoc
// @Summary      Quitar línea de un documento en DRAFT
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RemoveItemRequest  true  "document_id, line_id"
// @Success      200  {object}  dto.Envelope
// @Router       /api/{docs}/remove-item [post]
func (h *DocumentHandler) RemoveItem(c *fiber.Ctx) error {
	var req dto.RemoveItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.wf.RemoveLine(c.UserContext(), h.typ, req.DocumentID, req.LineID); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "línea eliminada")
}

// Update godoc
// @Summary      Editar cabecera en DRAFT
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateDocumentRequest  true  "campos a cambiar"
// @Success      200  {object}  dto.Envelope
// @Router       /api/{docs}/update [post]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDocumentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	patch := document.HeaderPatch{PartnerID: req.PartnerID, Remarks: req.Remarks, ScheduledDate: req.ScheduledDate}
	if req.Reason != nil {
		r := entity.AdjustmentReason(*req.Reason)
		patch.Reason = &r
	}
	doc, err := h.wf.UpdateHeader(c.UserContext(), h.typ, req.DocumentID, patch)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, toDocumentResponse(doc), "documento actualizado")
}

// Validate godoc
// @Summary      Validar documento (DRAFT → DONE)
// @Description  Postea los asientos de todas las líneas o ninguno. Las líneas sin
// @Description  confirmación se mueven por su cantidad completa.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateDocumentRequest  true  "document_id y confirmaciones opcionales"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{docs}/validate [post]
func (h *DocumentHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateDocumentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	confirmations := make([]document.Confirmation, 0, len(req.Lines))
	for _, l := range req.Lines {
		confirmations = append(confirmations, document.Confirmation{LineID: l.LineID, Quantity: l.Quantity})
	}
	ctx := c.UserContext()
	if _, err := h.wf.Validate(ctx, h.typ, req.DocumentID, GetUserID(c), confirmations); err != nil {
		return writeError(c, err)
	}
	out, err := h.details(ctx, req.DocumentID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "documento validado")
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "DRAFT | DONE"
// @Param        warehouse_id  query  string  false  "Bodega (origen o destino)"
// @Param        partner_id    query  string  false  "Proveedor o cliente"
// @Param        reason        query  string  false  "Motivo (ajustes)"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        page          query  int     false  "Página"  default(1)
// @Param        limit         query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.Envelope
// @Router       /api/{docs} [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	filter, err := documentFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	filter.Limit, filter.Offset = page.Limit, page.Offset()

	docs, total, err := h.wf.List(c.UserContext(), h.typ, filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return okPage(c, out, dto.NewPagination(total, page))
}

// Summary godoc
// @Summary      Conteo de documentos por estado
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/stock-adjustments/summary/overview [get]
func (h *DocumentHandler) Summary(c *fiber.Ctx) error {
	filter, err := documentFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.wf.Summary(c.UserContext(), h.typ, filter)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// GetByID godoc
// @Summary      Detalle de documento con líneas y asientos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{docs}/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.details(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// PDF godoc
// @Summary      Comprobante PDF del documento
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{docs}/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	ctx := c.UserContext()
	d, err := h.wf.Get(ctx, h.typ, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.pdf.GenerateDocumentPDF(ctx, d)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+d.Document.Number+`.pdf"`)
	return c.Send(pdf)
}

func (h *DocumentHandler) details(ctx context.Context, id string) (*dto.DocumentDetailResponse, error) {
	d, err := h.wf.Get(ctx, h.typ, id)
	if err != nil {
		return nil, err
	}
	out := &dto.DocumentDetailResponse{
		DocumentResponse: toDocumentResponse(d.Document),
		Lines:            make([]dto.DocumentLineResponse, 0, len(d.Lines)),
	}
	if d.Warehouse != nil {
		out.WarehouseName = d.Warehouse.Name
	}
	if d.DestinationWarehouse != nil {
		out.DestinationWarehouseName = d.DestinationWarehouse.Name
	}
	if d.Partner != nil {
		out.PartnerName = d.Partner.Name
	}
	for _, ld := range d.Lines {
		out.Lines = append(out.Lines, toLineResponse(ld))
	}
	if len(d.Entries) > 0 {
		if out.Entries, err = h.describer.DescribeEntries(ctx, d.Entries); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// documentFilter filtros comunes de listados y resumen. supplier_id y
// customer_id son alias de partner_id.
func documentFilter(c *fiber.Ctx) (repository.DocumentFilter, error) {
	f := repository.DocumentFilter{
		Status:      entity.DocumentStatus(strings.ToUpper(c.Query("status"))),
		WarehouseID: c.Query("warehouse_id"),
		PartnerID:   firstNonEmpty(c.Query("partner_id"), c.Query("supplier_id"), c.Query("customer_id")),
		Reason:      entity.AdjustmentReason(strings.ToUpper(c.Query("reason"))),
	}
	var err error
	if f.From, err = timeQuery(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = timeQuery(c, "to"); err != nil {
		return f, err
	}
	return f, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ── Mapeo a DTO ─────────────────────────────────────────────────────────────

func toDocumentResponse(d *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:                     d.ID,
		Type:                   string(d.Type),
		DocumentNumber:         d.Number,
		Status:                 string(d.Status),
		WarehouseID:            d.WarehouseID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		PartnerID:              d.PartnerID,
		Reason:                 string(d.Reason),
		Remarks:                d.Remarks,
		ScheduledDate:          d.ScheduledDate,
		DoneAt:                 d.DoneAt,
		CreatedBy:              d.CreatedBy,
		ValidatedBy:            d.ValidatedBy,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func toLineResponse(ld document.LineDetail) dto.DocumentLineResponse {
	l := ld.Line
	out := dto.DocumentLineResponse{
		ID:                    l.ID,
		ProductID:             l.ProductID,
		LocationID:            l.LocationID,
		DestinationLocationID: l.DestinationLocationID,
		Quantity:              l.Quantity,
		QuantityDone:          l.QuantityDone,
		Remarks:               l.Remarks,
	}
	if ld.Product != nil {
		out.SKU, out.ProductName, out.UnitMeasure = ld.Product.SKU, ld.Product.Name, ld.Product.UnitMeasure
	}
	if ld.Location != nil {
		out.LocationCode = ld.Location.Code
	}
	if ld.DestinationLocation != nil {
		out.DestinationLocationCode = ld.DestinationLocation.Code
	}
	return out
}
