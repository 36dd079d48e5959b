package document

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Details cabecera + líneas + datos maestros para mostrar + asientos generados.
type Details struct {
	Document             *entity.Document
	Warehouse            *entity.Warehouse
	DestinationWarehouse *entity.Warehouse
	Partner              *entity.Partner
	Lines                []LineDetail
	Entries              []*entity.LedgerEntry
}

// LineDetail línea con su producto y ubicaciones resueltos (nil si ya no existen).
type LineDetail struct {
	Line                *entity.DocumentLine
	Product             *entity.Product
	Location            *entity.Location
	DestinationLocation *entity.Location
}

// Get devuelve el detalle de un documento del tipo indicado.
func (w *Workflow) Get(ctx context.Context, typ entity.DocumentType, id string) (*Details, error) {
	doc, _, err := w.load(ctx, typ, id)
	if err != nil {
		return nil, err
	}
	out := &Details{Document: doc}

	if out.Warehouse, err = w.catalog.Warehouses.GetByID(ctx, doc.WarehouseID); err != nil {
		return nil, err
	}
	if doc.DestinationWarehouseID != "" {
		if out.DestinationWarehouse, err = w.catalog.Warehouses.GetByID(ctx, doc.DestinationWarehouseID); err != nil {
			return nil, err
		}
	}
	if doc.PartnerID != "" {
		if out.Partner, err = w.catalog.Partners.GetByID(ctx, doc.PartnerID); err != nil {
			return nil, err
		}
	}

	lines, err := w.docs.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product)
	locations := make(map[string]*entity.Location)
	for _, l := range lines {
		d := LineDetail{Line: l}
		if d.Product, err = cached(ctx, products, l.ProductID, w.catalog.Products.GetByID); err != nil {
			return nil, err
		}
		if d.Location, err = cached(ctx, locations, l.LocationID, w.catalog.Locations.GetByID); err != nil {
			return nil, err
		}
		if l.DestinationLocationID != "" {
			if d.DestinationLocation, err = cached(ctx, locations, l.DestinationLocationID, w.catalog.Locations.GetByID); err != nil {
				return nil, err
			}
		}
		out.Lines = append(out.Lines, d)
	}

	if doc.Status == entity.StatusDone {
		if out.Entries, err = w.ledger.EntriesForDocument(ctx, id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func cached[T any](ctx context.Context, m map[string]*T, id string, get func(context.Context, string) (*T, error)) (*T, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	v, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	m[id] = v
	return v, nil
}
