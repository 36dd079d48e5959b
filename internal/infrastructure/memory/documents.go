package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.DocumentRepository = documentRepo{}

type documentRepo struct{ sc scope }

func (r documentRepo) Create(_ context.Context, doc *entity.Document) error {
	defer r.sc.lock()()
	s := r.sc.s
	for _, other := range s.documents {
		if other.Number == doc.Number {
			return fmt.Errorf("%w: número de documento %s", domain.ErrDuplicate, doc.Number)
		}
	}
	c := *doc
	s.documents[doc.ID] = &c
	s.docOrder = append(s.docOrder, doc.ID)
	r.sc.onRollback(func() {
		delete(s.documents, doc.ID)
		s.docOrder = s.docOrder[:len(s.docOrder)-1]
	})
	return nil
}

func (r documentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	defer r.sc.rlock()()
	d, ok := r.sc.s.documents[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r documentRepo) GetByNumber(_ context.Context, number string) (*entity.Document, error) {
	defer r.sc.rlock()()
	for _, d := range r.sc.s.documents {
		if d.Number == number {
			c := *d
			return &c, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: bajo Run el Store ya está bloqueado.
func (r documentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r documentRepo) Update(_ context.Context, doc *entity.Document) error {
	defer r.sc.lock()()
	s := r.sc.s
	prev, ok := s.documents[doc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *doc
	s.documents[doc.ID] = &c
	r.sc.onRollback(func() { s.documents[doc.ID] = prev })
	return nil
}

func (r documentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, int, error) {
	defer r.sc.rlock()()
	out := r.filter(f)
	total := len(out)
	return paginate(out, f.Limit, f.Offset), total, nil
}

func (r documentRepo) CountByStatus(_ context.Context, f repository.DocumentFilter) (map[entity.DocumentStatus]int, error) {
	defer r.sc.rlock()()
	counts := make(map[entity.DocumentStatus]int)
	for _, d := range r.filter(f) {
		counts[d.Status]++
	}
	return counts, nil
}

// filter recorre en orden inverso de inserción y ordena por created_at desc (estable).
func (r documentRepo) filter(f repository.DocumentFilter) []*entity.Document {
	s := r.sc.s
	out := make([]*entity.Document, 0)
	for i := len(s.docOrder) - 1; i >= 0; i-- {
		d := s.documents[s.docOrder[i]]
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.WarehouseID != "" && d.WarehouseID != f.WarehouseID && d.DestinationWarehouseID != f.WarehouseID {
			continue
		}
		if f.PartnerID != "" && d.PartnerID != f.PartnerID {
			continue
		}
		if f.Reason != "" && d.Reason != f.Reason {
			continue
		}
		if f.From != nil && d.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && d.CreatedAt.After(*f.To) {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r documentRepo) AddLine(_ context.Context, line *entity.DocumentLine) error {
	defer r.sc.lock()()
	s := r.sc.s
	if _, ok := s.documents[line.DocumentID]; !ok {
		return domain.ErrNotFound
	}
	c := *line
	s.lines[line.DocumentID] = append(s.lines[line.DocumentID], &c)
	r.sc.onRollback(func() {
		ls := s.lines[line.DocumentID]
		s.lines[line.DocumentID] = ls[:len(ls)-1]
	})
	return nil
}

func (r documentRepo) UpdateLine(_ context.Context, line *entity.DocumentLine) error {
	defer r.sc.lock()()
	s := r.sc.s
	for i, l := range s.lines[line.DocumentID] {
		if l.ID != line.ID {
			continue
		}
		prev := l
		c := *line
		s.lines[line.DocumentID][i] = &c
		r.sc.onRollback(func() { s.lines[line.DocumentID][i] = prev })
		return nil
	}
	return domain.ErrNotFound
}

func (r documentRepo) DeleteLine(_ context.Context, documentID, lineID string) error {
	defer r.sc.lock()()
	s := r.sc.s
	ls := s.lines[documentID]
	for i, l := range ls {
		if l.ID != lineID {
			continue
		}
		prev := append([]*entity.DocumentLine(nil), ls...)
		s.lines[documentID] = append(ls[:i:i], ls[i+1:]...)
		r.sc.onRollback(func() { s.lines[documentID] = prev })
		return nil
	}
	return domain.ErrNotFound
}

func (r documentRepo) ListLines(_ context.Context, documentID string) ([]*entity.DocumentLine, error) {
	defer r.sc.rlock()()
	ls := r.sc.s.lines[documentID]
	out := make([]*entity.DocumentLine, 0, len(ls))
	for _, l := range ls {
		c := *l
		out = append(out, &c)
	}
	return out, nil
}
