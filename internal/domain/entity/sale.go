package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta confirmada. Es inmutable una vez creada:
// TotalAmount es la suma de UnitPrice × Quantity de sus ítems al momento de crearla.
type Sale struct {
	ID          string
	CashierID   string
	TotalAmount decimal.Decimal
	Items       []SaleItem
	CreatedAt   time.Time
}

// SaleItem línea de una venta. UnitCost es una foto del costo del producto para reportes de utilidad.
type SaleItem struct {
	ID             string
	SaleID         string
	ProductID      string
	ProductName    string
	Category       string // categoría del producto al momento de la venta
	Quantity       int
	UnitPrice      decimal.Decimal
	UnitCost       decimal.Decimal
	Subtotal       decimal.Decimal
	RemainingStock int // stock del producto después de la venta
}

// ComputeTotal suma UnitPrice × Quantity de todos los ítems.
func ComputeTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
