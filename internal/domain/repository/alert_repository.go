package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// AlertFilter filtros para listar alertas.
type AlertFilter struct {
	Status string // vacío = todas
	Kind   string
	Limit  int
	Offset int
}

// AlertRepository define el puerto de persistencia para Alert.
type AlertRepository interface {
	// FindOpen busca una alerta abierta (unread/read) con el mismo par (kind, message).
	FindOpen(ctx context.Context, kind, message string) (*entity.Alert, error)
	// Create inserta la alerta salvo que ya exista una abierta con el mismo (kind, message).
	// created=false indica que no se insertó por duplicado.
	Create(ctx context.Context, alert *entity.Alert) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
	ListOpen(ctx context.Context) ([]*entity.Alert, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	UpdateStatus(ctx context.Context, id, status string, resolvedAt *time.Time) error
	MarkAllRead(ctx context.Context) (int, error)
}
