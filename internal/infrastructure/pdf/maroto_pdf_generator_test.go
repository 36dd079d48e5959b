package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/document"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestGenerateDocumentPDF_Traslado(t *testing.T) {
	done := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := &document.Details{
		Document: &entity.Document{
			ID: "d1", Type: entity.DocumentTransfer, Number: "TRF-001", Status: entity.StatusDone,
			WarehouseID: "w1", DestinationWarehouseID: "w2", CreatedBy: "u1", ValidatedBy: "u2",
			CreatedAt: done, DoneAt: &done,
		},
		Warehouse:            &entity.Warehouse{ID: "w1", Code: "WH1", Name: "Principal"},
		DestinationWarehouse: &entity.Warehouse{ID: "w2", Code: "WH2", Name: "Sucursal"},
		Lines: []document.LineDetail{{
			Line:                &entity.DocumentLine{ID: "l1", ProductID: "p", LocationID: "a", DestinationLocationID: "b", Quantity: 5, QuantityDone: 5},
			Product:             &entity.Product{SKU: "SKU-P", Name: "Tornillo"},
			Location:            &entity.Location{Code: "A-01"},
			DestinationLocation: &entity.Location{Code: "B-01"},
		}},
	}

	out, err := NewMarotoPDFGenerator().GenerateDocumentPDF(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateDocumentPDF_SinMaestrosUsaIDs(t *testing.T) {
	d := &document.Details{
		Document: &entity.Document{ID: "d1", Type: entity.DocumentAdjustment, Number: "ADJ-1", Status: entity.StatusDraft,
			WarehouseID: "w1", Reason: entity.ReasonDamaged, CreatedAt: time.Now()},
		Lines: []document.LineDetail{{Line: &entity.DocumentLine{ProductID: "p", LocationID: "a", Quantity: -2}}},
	}
	out, err := NewMarotoPDFGenerator().GenerateDocumentPDF(context.Background(), d)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateDocumentPDF_Nil(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateDocumentPDF(context.Background(), nil)
	assert.Error(t, err)
}
