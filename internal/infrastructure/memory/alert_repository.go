package memory

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas en memoria. Create aplica la misma unicidad que el índice parcial de PostgreSQL.
type AlertRepo struct {
	s *Store

	// FailCreate simula un fallo al persistir alertas.
	FailCreate error
}

func (r *AlertRepo) findOpen(kind, message string) *entity.Alert {
	for _, a := range r.s.alerts {
		if a.IsOpen() && a.Kind == kind && a.Message == message {
			return a
		}
	}
	return nil
}

func (r *AlertRepo) FindOpen(_ context.Context, kind, message string) (*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a := r.findOpen(kind, message); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *AlertRepo) Create(_ context.Context, alert *entity.Alert) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.FailCreate != nil {
		return false, r.FailCreate
	}
	if r.findOpen(alert.Kind, alert.Message) != nil {
		return false, nil
	}
	cp := *alert
	r.s.alerts = append(r.s.alerts, &cp)
	return true, nil
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Alert, 0)
	for i := len(r.s.alerts) - 1; i >= 0; i-- {
		a := r.s.alerts[i]
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && a.Kind != filter.Kind {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	if filter.Offset > len(out) {
		return []*entity.Alert{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *AlertRepo) ListOpen(_ context.Context) ([]*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Alert
	for _, a := range r.s.alerts {
		if a.IsOpen() {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *AlertRepo) CountByStatus(_ context.Context, status string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.alerts {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *AlertRepo) UpdateStatus(_ context.Context, id, status string, resolvedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.ID == id {
			a.Status = status
			a.ResolvedAt = resolvedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *AlertRepo) MarkAllRead(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.alerts {
		if a.Status == entity.AlertStatusUnread {
			a.Status = entity.AlertStatusRead
			n++
		}
	}
	return n, nil
}

// All devuelve una copia de todas las alertas (pruebas).
func (r *AlertRepo) All() []entity.Alert {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Alert, 0, len(r.s.alerts))
	for _, a := range r.s.alerts {
		out = append(out, *a)
	}
	return out
}
