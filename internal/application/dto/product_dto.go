package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Category      string          `json:"category"`
	SupplierID    string          `json:"supplier_id"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
}

// UpdateProductRequest actualización parcial de un producto.
// ClearExpiry elimina la fecha de vencimiento.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Barcode       *string          `json:"barcode"`
	Category      *string          `json:"category"`
	SupplierID    *string          `json:"supplier_id"`
	Price         *decimal.Decimal `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Quantity      *int             `json:"quantity"`
	MinStockLevel *int             `json:"min_stock_level"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	ClearExpiry   bool             `json:"clear_expiry"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	Category      string          `json:"category"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
