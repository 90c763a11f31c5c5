package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	Search   string // coincidencia parcial por nombre o código de barras
	Category string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	// ListAll recorre todo el catálogo (barrido de alertas).
	ListAll(ctx context.Context) ([]*entity.Product, error)

	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE). Solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// DecrementStock descuenta qty solo si quantity >= qty (compare-and-swap).
	// ok=false si el stock no alcanzaba; remaining es el stock resultante.
	DecrementStock(ctx context.Context, id string, qty int) (remaining int, ok bool, err error)
}
