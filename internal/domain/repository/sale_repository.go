package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// SaleFilter filtros del historial de ventas.
type SaleFilter struct {
	From      *time.Time
	To        *time.Time
	CashierID string
	Limit     int
	Offset    int
}

// SaleRepository define el puerto de persistencia para Sale y sus ítems.
// No hay Update ni Delete: una venta es inmutable.
type SaleRepository interface {
	// Create persiste la cabecera y todos los ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, int, error)
}
