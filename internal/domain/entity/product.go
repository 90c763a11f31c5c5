package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// Quantity es el stock disponible y nunca queda negativo tras una operación confirmada.
type Product struct {
	ID            string
	Name          string
	Barcode       string          // opcional; único si está presente
	Category      string          // etiqueta de categoría
	SupplierID    string          // opcional
	Price         decimal.Decimal // precio de venta
	CostPrice     decimal.Decimal // precio de compra
	Quantity      int
	MinStockLevel int        // 0 = usar el umbral por defecto de alertas
	ExpiryDate    *time.Time // nil si el producto no vence
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasExpiry indica si el producto tiene fecha de vencimiento.
func (p *Product) HasExpiry() bool {
	return p.ExpiryDate != nil && !p.ExpiryDate.IsZero()
}
