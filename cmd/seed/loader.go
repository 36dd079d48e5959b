package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Charsets aceptados por -charset.
const (
	charsetUTF8   = "utf-8"
	charsetLatin1 = "iso-8859-1"
	charsetCP1252 = "windows-1252"
)

// stats resultado de una carga.
type stats struct {
	Created int
	Skipped int
}

// loader carga datos maestros desde CSV. Cada fila empieza por el tipo de registro:
//
//	warehouse,<code>,<name>[,<address>]
//	location,<warehouse_code>,<code>,<name>[,<parent_code>]
//	product,<sku>,<name>[,<uom>[,<category>]]
//	supplier|customer,<code>,<name>[,<email>[,<phone>]]
//	rule,<sku>,<warehouse_code o vacío>,<min>[,<max>]
//
// Los duplicados se omiten; las referencias se resuelven contra lo ya cargado
// y contra lo que exista en el almacén.
type loader struct {
	warehouses  *usecase.WarehouseUseCase
	products    *usecase.ProductUseCase
	partners    *usecase.PartnerUseCase
	rules       *usecase.ReorderRuleUseCase
	productRepo repository.ProductRepository

	warehouseIDs map[string]string // code → id
	locationIDs  map[string]string // warehouse_code/code → id
	log          zerolog.Logger
}

func newLoader(
	ctx context.Context,
	warehouseRepo repository.WarehouseRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	partnerRepo repository.PartnerRepository,
	ruleRepo repository.ReorderRuleRepository,
	log zerolog.Logger,
) (*loader, error) {
	l := &loader{
		warehouses:   usecase.NewWarehouseUseCase(warehouseRepo, locationRepo),
		products:     usecase.NewProductUseCase(productRepo),
		partners:     usecase.NewPartnerUseCase(partnerRepo),
		rules:        usecase.NewReorderRuleUseCase(ruleRepo, productRepo, warehouseRepo),
		productRepo:  productRepo,
		warehouseIDs: make(map[string]string),
		locationIDs:  make(map[string]string),
		log:          log,
	}
	whs, err := warehouseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	codes := make(map[string]string, len(whs))
	for _, w := range whs {
		l.warehouseIDs[w.Code] = w.ID
		codes[w.ID] = w.Code
	}
	locs, err := locationRepo.ListByWarehouse(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones: %w", err)
	}
	for _, loc := range locs {
		l.locationIDs[locationKey(codes[loc.WarehouseID], loc.Code)] = loc.ID
	}
	return l, nil
}

func locationKey(warehouseCode, code string) string {
	return strings.ToUpper(warehouseCode) + "/" + strings.ToUpper(code)
}

// decoder envuelve r para entregar UTF-8.
func decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", charsetUTF8, "utf8":
		return r, nil
	case charsetLatin1, "latin1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case charsetCP1252, "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

// Load procesa todo el archivo. Se detiene en el primer error que no sea un duplicado.
func (l *loader) Load(ctx context.Context, r io.Reader, charset string) (stats, error) {
	var st stats
	in, err := decoder(r, charset)
	if err != nil {
		return st, err
	}
	cr := csv.NewReader(in)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		if err != nil {
			return st, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if len(rec) == 0 || rec[0] == "" {
			continue
		}

		err = l.row(ctx, rec)
		switch {
		case err == nil:
			st.Created++
		case errors.Is(err, domain.ErrDuplicate):
			st.Skipped++
			l.log.Warn().Int("line", line).Err(err).Msg("registro existente, se omite")
		default:
			return st, fmt.Errorf("línea %d: %w", line, err)
		}
	}
}

func (l *loader) row(ctx context.Context, rec []string) error {
	kind := strings.ToLower(rec[0])
	switch kind {
	case "warehouse":
		if err := need(rec, 3); err != nil {
			return err
		}
		out, err := l.warehouses.Create(ctx, dto.CreateWarehouseRequest{Code: rec[1], Name: rec[2], Address: field(rec, 3)})
		if err != nil {
			return err
		}
		l.warehouseIDs[out.Code] = out.ID
		return nil

	case "location":
		if err := need(rec, 4); err != nil {
			return err
		}
		whID, ok := l.warehouseIDs[strings.ToUpper(rec[1])]
		if !ok {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, rec[1])
		}
		req := dto.CreateLocationRequest{WarehouseID: whID, Code: rec[2], Name: rec[3]}
		if parent := field(rec, 4); parent != "" {
			pid, ok := l.locationIDs[locationKey(rec[1], parent)]
			if !ok {
				return fmt.Errorf("%w: ubicación padre %s", domain.ErrNotFound, parent)
			}
			req.ParentID = pid
		}
		out, err := l.warehouses.CreateLocation(ctx, req)
		if err != nil {
			return err
		}
		l.locationIDs[locationKey(rec[1], out.Code)] = out.ID
		return nil

	case "product":
		if err := need(rec, 3); err != nil {
			return err
		}
		_, err := l.products.Create(ctx, dto.CreateProductRequest{
			SKU: rec[1], Name: rec[2], UnitMeasure: field(rec, 3), Category: field(rec, 4),
		})
		return err

	case "supplier", "customer":
		if err := need(rec, 3); err != nil {
			return err
		}
		_, err := l.partners.Create(ctx, dto.CreatePartnerRequest{
			Kind: kind, Code: rec[1], Name: rec[2], Email: field(rec, 3), Phone: field(rec, 4),
		})
		return err

	case "rule":
		if err := need(rec, 4); err != nil {
			return err
		}
		p, err := l.productRepo.GetBySKU(ctx, rec[1])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, rec[1])
		}
		req := dto.CreateReorderRuleRequest{ProductID: p.ID}
		if rec[2] != "" {
			whID, ok := l.warehouseIDs[strings.ToUpper(rec[2])]
			if !ok {
				return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, rec[2])
			}
			req.WarehouseID = whID
		}
		if req.MinQuantity, err = quantity(rec[3]); err != nil {
			return err
		}
		if raw := field(rec, 4); raw != "" {
			if req.MaxQuantity, err = quantity(raw); err != nil {
				return err
			}
		}
		_, err = l.rules.Create(ctx, req)
		return err
	}
	return fmt.Errorf("%w: tipo de registro desconocido %q", domain.ErrValidation, rec[0])
}

func need(rec []string, n int) error {
	if len(rec) < n {
		return fmt.Errorf("%w: %s requiere %d columnas", domain.ErrValidation, rec[0], n)
	}
	for i := 1; i < n; i++ {
		if rec[i] == "" && !(rec[0] == "rule" && i == 2) {
			return fmt.Errorf("%w: columna %d vacía", domain.ErrValidation, i+1)
		}
	}
	return nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func quantity(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: cantidad inválida %q", domain.ErrValidation, s)
	}
	return n, nil
}
