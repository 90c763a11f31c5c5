package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Products []SaleLineRequest `json:"products"`
}

// SaleLineRequest línea del carrito. Price en cero = usar el precio del catálogo.
type SaleLineRequest struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SaleItemResponse línea de una venta registrada.
type SaleItemResponse struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	RemainingStock int             `json:"remaining_stock"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string             `json:"id"`
	CashierID   string             `json:"cashier_id,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []SaleItemResponse `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
}

// RemainingStockResponse stock restante por producto tras la venta (confirmación en caja).
type RemainingStockResponse struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	RemainingStock int    `json:"remaining_stock"`
}

// CreateSaleResponse respuesta de POST /api/sales.
type CreateSaleResponse struct {
	Sale      SaleResponse             `json:"sale"`
	Remaining []RemainingStockResponse `json:"remaining"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
