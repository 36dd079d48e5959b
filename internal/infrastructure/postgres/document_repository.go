package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo cabeceras y líneas de los cuatro tipos de documento (tabla única).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, type, document_number, status, warehouse_id,
	COALESCE(destination_warehouse_id::text, ''), COALESCE(partner_id::text, ''),
	reason, remarks, scheduled_date, done_at, created_by, validated_by, created_at, updated_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(&d.ID, &d.Type, &d.Number, &d.Status, &d.WarehouseID,
		&d.DestinationWarehouseID, &d.PartnerID,
		&d.Reason, &d.Remarks, &d.ScheduledDate, &d.DoneAt, &d.CreatedBy, &d.ValidatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create document_number repetido → ErrDuplicate.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (id, type, document_number, status, warehouse_id, destination_warehouse_id,
			partner_id, reason, remarks, scheduled_date, done_at, created_by, validated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Type, d.Number, d.Status, d.WarehouseID, nullable(d.DestinationWarehouseID),
		nullable(d.PartnerID), d.Reason, d.Remarks, d.ScheduledDate, d.DoneAt, d.CreatedBy, d.ValidatedBy,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document_number %s", domain.ErrDuplicate, d.Number)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) get(ctx context.Context, query string, arg any) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

func (r *DocumentRepo) GetByNumber(ctx context.Context, number string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE document_number = $1`, number)
}

// GetForUpdate bloquea la fila de cabecera (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste los campos mutables de la cabecera y el estado.
func (r *DocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	query := `
		UPDATE documents SET status = $2, partner_id = $3, reason = $4, remarks = $5, scheduled_date = $6,
			done_at = $7, validated_by = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		d.ID, d.Status, nullable(d.PartnerID), d.Reason, d.Remarks, d.ScheduledDate,
		d.DoneAt, d.ValidatedBy, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: documento %s", domain.ErrNotFound, d.ID)
	}
	return nil
}

func documentWhere(f repository.DocumentFilter) *where {
	w := &where{}
	if f.Type != "" {
		w.add(`type = ?`, f.Type)
	}
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}
	if f.WarehouseID != "" {
		w.addID(`(warehouse_id = ? OR destination_warehouse_id = ?)`, f.WarehouseID)
	}
	if f.PartnerID != "" {
		w.addID(`partner_id = ?`, f.PartnerID)
	}
	if f.Reason != "" {
		w.add(`reason = ?`, f.Reason)
	}
	if f.From != nil {
		w.add(`created_at >= ?`, *f.From)
	}
	if f.To != nil {
		w.add(`created_at <= ?`, *f.To)
	}
	return w
}

// List ordena por created_at desc y devuelve el total sin paginar.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, int, error) {
	w := documentWhere(f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	query := `SELECT ` + documentColumns + ` FROM documents` + w.sql() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

func (r *DocumentRepo) CountByStatus(ctx context.Context, f repository.DocumentFilter) (map[entity.DocumentStatus]int, error) {
	w := documentWhere(f)
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM documents`+w.sql()+` GROUP BY status`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("count documents by status: %w", err)
	}
	defer rows.Close()
	counts := make(map[entity.DocumentStatus]int)
	for rows.Next() {
		var status entity.DocumentStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ── Líneas ──────────────────────────────────────────────────────────────────

const lineColumns = `id, document_id, product_id, location_id, COALESCE(destination_location_id::text, ''),
	quantity, quantity_done, remarks, created_at`

// AddLine la combinación producto/ubicación(es) es única por documento.
func (r *DocumentRepo) AddLine(ctx context.Context, l *entity.DocumentLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO document_lines (id, document_id, product_id, location_id, destination_location_id,
			quantity, quantity_done, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.DocumentID, l.ProductID, l.LocationID, nullable(l.DestinationLocationID),
		l.Quantity, l.QuantityDone, l.Remarks, l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el producto ya tiene una línea en esa ubicación", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert document line: %w", err)
	}
	return nil
}

func (r *DocumentRepo) UpdateLine(ctx context.Context, l *entity.DocumentLine) error {
	if !validIDs(l.ID, l.DocumentID) {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE document_lines SET quantity = $3, quantity_done = $4, remarks = $5
		WHERE id = $1 AND document_id = $2`,
		l.ID, l.DocumentID, l.Quantity, l.QuantityDone, l.Remarks,
	)
	if err != nil {
		return fmt.Errorf("update document line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

func (r *DocumentRepo) DeleteLine(ctx context.Context, documentID, lineID string) error {
	if !validIDs(documentID, lineID) {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM document_lines WHERE id = $1 AND document_id = $2`, lineID, documentID)
	if err != nil {
		return fmt.Errorf("delete document line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	return nil
}

// ListLines en orden de creación.
func (r *DocumentRepo) ListLines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lineColumns+` FROM document_lines WHERE document_id = $1 ORDER BY created_at, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.DocumentLine, 0)
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.LocationID, &l.DestinationLocationID,
			&l.Quantity, &l.QuantityDone, &l.Remarks, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
