// Package pdf genera el comprobante imprimible de un documento de inventario
// (recepción, entrega, traslado o ajuste).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento  │  N° + Estado + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGA(S) + TERCERO / MOTIVO                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Ubicación | Cant. | Hecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el número + firmas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-ledger/internal/application/document"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var titles = map[entity.DocumentType]string{
	entity.DocumentReceipt:    "RECEPCIÓN DE MERCANCÍA",
	entity.DocumentDelivery:   "ORDEN DE ENTREGA",
	entity.DocumentTransfer:   "TRASLADO INTERNO",
	entity.DocumentAdjustment: "AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera comprobantes de documentos con Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDocumentPDF genera el PDF del documento y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(_ context.Context, d *document.Details) ([]byte, error) {
	if d == nil || d.Document == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}
	doc := d.Document

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(titles[doc.Type]+" "+doc.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.Type))
	m.AddRows(tableDetailRows(doc.Type, d.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(d.Lines))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *entity.Document) core.Row {
	fecha := doc.CreatedAt.Format("02/01/2006")
	if doc.DoneAt != nil {
		fecha = doc.DoneAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(titles[doc.Type], props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+string(doc.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// partiesRow bodega(s) y, según el tipo, proveedor/cliente o motivo.
func partiesRow(d *document.Details) core.Row {
	doc := d.Document
	where := "Bodega: " + warehouseName(d.Warehouse, doc.WarehouseID)
	if doc.Type == entity.DocumentTransfer {
		where = "Origen: " + warehouseName(d.Warehouse, doc.WarehouseID) +
			"   |   Destino: " + warehouseName(d.DestinationWarehouse, doc.DestinationWarehouseID)
	}

	var who string
	switch doc.Type {
	case entity.DocumentReceipt:
		who = "Proveedor: " + partnerName(d.Partner)
	case entity.DocumentDelivery:
		who = "Cliente: " + partnerName(d.Partner)
	case entity.DocumentAdjustment:
		who = "Motivo: " + string(doc.Reason)
	}

	return row.New(16).Add(
		col.New(12).Add(
			text.New(where, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New(nonEmpty(who, " "), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New("Observaciones: "+nonEmpty(doc.Remarks, "—"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow(typ entity.DocumentType) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	loc := "Ubicación"
	if typ == entity.DocumentTransfer {
		loc = "Origen → Destino"
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h(loc, 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Hecha", 2, align.Right),
	)
}

func tableDetailRows(typ entity.DocumentType, lines []document.LineDetail) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, ld := range lines {
		sku, name := ld.Line.ProductID, ""
		if ld.Product != nil {
			sku, name = ld.Product.SKU, ld.Product.Name
		}
		loc := locationCode(ld.Location, ld.Line.LocationID)
		if typ == entity.DocumentTransfer {
			loc += " → " + locationCode(ld.DestinationLocation, ld.Line.DestinationLocationID)
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(sku, 2, align.Left),
			cell(name, 4, align.Left),
			cell(loc, 3, align.Left),
			cell(strconv.FormatInt(ld.Line.Quantity, 10), 1, align.Right),
			cell(strconv.FormatInt(ld.Line.QuantityDone, 10), 2, align.Right),
		))
	}
	return result
}

func totalsRow(lines []document.LineDetail) core.Row {
	var qty, done int64
	for _, ld := range lines {
		qty += ld.Line.Quantity
		done += ld.Line.QuantityDone
	}
	label := fmt.Sprintf("Líneas: %d   |   Cantidad: %d   |   Hecha: %d", len(lines), qty, done)
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1}),
	))
}

// footerRow QR con el número de documento para escaneo en bodega, y firmas.
func footerRow(doc *entity.Document) core.Row {
	validated := "Pendiente de validación"
	if doc.ValidatedBy != "" {
		validated = "Validado por: " + doc.ValidatedBy
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.Number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Creado por: "+doc.CreatedBy, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New(validated, props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray}),
			text.New("Firma recibido: ______________________________", props.Text{Size: 9, Top: 26, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func warehouseName(w *entity.Warehouse, id string) string {
	if w == nil {
		return id
	}
	return w.Code + " - " + w.Name
}

func partnerName(p *entity.Partner) string {
	if p == nil {
		return "—"
	}
	return p.Name
}

func locationCode(l *entity.Location, id string) string {
	if l == nil {
		return id
	}
	return l.Code
}
