package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de ventas en un rango.
type SalesMetrics struct {
	SalesCount int
	ItemsSold  int
	Revenue    decimal.Decimal
	Cost       decimal.Decimal // Σ qty × costo unitario registrado en la venta
}

// MonthlyAmount monto agregado por mes (1-12).
type MonthlyAmount struct {
	Month   int
	Revenue decimal.Decimal
	Cost    decimal.Decimal
}

// RankingRow fila de un ranking (producto, categoría o cajero).
type RankingRow struct {
	Key       string // id del producto / etiqueta de categoría / id del cajero
	Label     string // nombre visible
	Quantity  int
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
	SaleCount int
}

// ReportRepository consultas de solo lectura para reportes. Las implementaciones no modifican datos.
type ReportRepository interface {
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	GetExpensesTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	// GetMonthlySales devuelve revenue/cost por mes del año (solo meses con ventas).
	GetMonthlySales(ctx context.Context, year int) ([]MonthlyAmount, error)
	// GetMonthlyExpenses devuelve el total de gastos por mes en Revenue (Cost queda en cero).
	GetMonthlyExpenses(ctx context.Context, year int) ([]MonthlyAmount, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]RankingRow, error)
	GetTopCategories(ctx context.Context, from, to time.Time, limit int) ([]RankingRow, error)
	GetTopCashiers(ctx context.Context, from, to time.Time, limit int) ([]RankingRow, error)
	// CountLowStock cuenta productos con 0 < quantity <= umbral (min_stock_level o defaultThreshold).
	CountLowStock(ctx context.Context, defaultThreshold int) (int, error)
}
