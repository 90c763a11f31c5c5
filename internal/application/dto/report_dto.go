package dto

import "github.com/shopspring/decimal"

// MonthlyProfitDTO utilidad de un mes.
type MonthlyProfitDTO struct {
	Month       int             `json:"month"`
	Label       string          `json:"label"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	Expenses    decimal.Decimal `json:"expenses"`
	GrossProfit decimal.Decimal `json:"gross_profit"` // revenue - cost
	NetProfit   decimal.Decimal `json:"net_profit"`   // gross_profit - expenses
}

// MonthlyProfitReport utilidad mensual de un año.
type MonthlyProfitReport struct {
	Year   int                `json:"year"`
	Months []MonthlyProfitDTO `json:"months"`
	Totals MonthlyProfitDTO   `json:"totals"`
}

// RankingDTO fila de ranking (producto, categoría o cajero).
type RankingDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
	SaleCount int             `json:"sale_count"`
}

// SummaryDTO resumen de ventas/gastos para un período.
type SummaryDTO struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	SalesCount int             `json:"sales_count"`
	ItemsSold  int             `json:"items_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
	Cost       decimal.Decimal `json:"cost"`
	Expenses   decimal.Decimal `json:"expenses"`
	Profit     decimal.Decimal `json:"profit"` // revenue - cost - expenses
}

// DashboardDTO respuesta de GET /api/reports/dashboard.
type DashboardDTO struct {
	Today         SummaryDTO   `json:"today"`
	Month         SummaryDTO   `json:"month"`
	TopProducts   []RankingDTO `json:"top_products"`
	UnreadAlerts  int          `json:"unread_alerts"`
	LowStockCount int          `json:"low_stock_count"`
	DateLabel     string       `json:"date_label"`
}

// ReplenishmentSuggestionDTO producto bajo su umbral con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	Barcode            string          `json:"barcode,omitempty"`
	Name               string          `json:"name"`
	Category           string          `json:"category,omitempty"`
	CurrentStock       int             `json:"current_stock"`
	Threshold          int             `json:"threshold"`
	IdealStock         int             `json:"ideal_stock"`
	SuggestedOrderQty  int             `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	UnitsSold90Days    int             `json:"units_sold_90_days"`
	Priority           int             `json:"priority"`
}
