package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de utilidad y rankings.
// El costo sale de sale_items.unit_cost (foto al momento de vender), no del costo actual del producto.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// GetSalesMetrics cantidad de ventas, unidades, ingresos y costo en [from, to].
func (r *ReportRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(DISTINCT s.id)                        AS sales_count,
	    COALESCE(SUM(i.quantity), 0)                AS items_sold,
	    COALESCE(SUM(i.subtotal), 0)                AS revenue,
	    COALESCE(SUM(i.quantity * i.unit_cost), 0)  AS cost
	FROM sales s
	JOIN sale_items i ON i.sale_id = s.id
	WHERE s.created_at BETWEEN $1 AND $2`

	var m repository.SalesMetrics
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&m.SalesCount, &m.ItemsSold, &m.Revenue, &m.Cost); err != nil {
		return m, fmt.Errorf("reports.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetExpensesTotal suma de gastos en [from, to].
func (r *ReportRepo) GetExpensesTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date BETWEEN $1 AND $2`, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reports.GetExpensesTotal: %w", err)
	}
	return total, nil
}

// GetMonthlySales ingresos y costo por mes del año.
func (r *ReportRepo) GetMonthlySales(ctx context.Context, year int) ([]repository.MonthlyAmount, error) {
	const query = `
	SELECT
	    EXTRACT(MONTH FROM s.created_at)::int       AS month,
	    COALESCE(SUM(i.subtotal), 0)                AS revenue,
	    COALESCE(SUM(i.quantity * i.unit_cost), 0)  AS cost
	FROM sales s
	JOIN sale_items i ON i.sale_id = s.id
	WHERE EXTRACT(YEAR FROM s.created_at) = $1
	GROUP BY 1
	ORDER BY 1`
	return r.monthly(ctx, "reports.GetMonthlySales", query, year, true)
}

// GetMonthlyExpenses gastos por mes del año (en Revenue).
func (r *ReportRepo) GetMonthlyExpenses(ctx context.Context, year int) ([]repository.MonthlyAmount, error) {
	const query = `
	SELECT EXTRACT(MONTH FROM date)::int AS month, COALESCE(SUM(amount), 0) AS total
	FROM expenses
	WHERE EXTRACT(YEAR FROM date) = $1
	GROUP BY 1
	ORDER BY 1`
	return r.monthly(ctx, "reports.GetMonthlyExpenses", query, year, false)
}

func (r *ReportRepo) monthly(ctx context.Context, op, query string, year int, withCost bool) ([]repository.MonthlyAmount, error) {
	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []repository.MonthlyAmount
	for rows.Next() {
		var m repository.MonthlyAmount
		dest := []any{&m.Month, &m.Revenue}
		if withCost {
			dest = append(dest, &m.Cost)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return out, nil
}

// GetTopProducts productos por unidades vendidas.
func (r *ReportRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.RankingRow, error) {
	const query = `
	SELECT
	    i.product_id::text,
	    MAX(i.product_name)                                   AS label,
	    SUM(i.quantity)                                       AS quantity,
	    SUM(i.subtotal)                                       AS revenue,
	    SUM(i.subtotal - i.quantity * i.unit_cost)            AS profit,
	    COUNT(DISTINCT i.sale_id)                             AS sale_count
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.created_at BETWEEN $1 AND $2
	GROUP BY i.product_id
	ORDER BY quantity DESC, revenue DESC
	LIMIT $3`
	return r.ranking(ctx, "reports.GetTopProducts", query, from, to, limit)
}

// GetTopCategories categorías por ingresos. Los ítems sin categoría se agrupan en "Sin categoría".
func (r *ReportRepo) GetTopCategories(ctx context.Context, from, to time.Time, limit int) ([]repository.RankingRow, error) {
	const query = `
	SELECT
	    COALESCE(NULLIF(i.category, ''), 'Sin categoría')     AS key,
	    COALESCE(NULLIF(i.category, ''), 'Sin categoría')     AS label,
	    SUM(i.quantity)                                       AS quantity,
	    SUM(i.subtotal)                                       AS revenue,
	    SUM(i.subtotal - i.quantity * i.unit_cost)            AS profit,
	    COUNT(DISTINCT i.sale_id)                             AS sale_count
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.created_at BETWEEN $1 AND $2
	GROUP BY 1
	ORDER BY revenue DESC
	LIMIT $3`
	return r.ranking(ctx, "reports.GetTopCategories", query, from, to, limit)
}

// GetTopCashiers cajeros por ingresos.
func (r *ReportRepo) GetTopCashiers(ctx context.Context, from, to time.Time, limit int) ([]repository.RankingRow, error) {
	const query = `
	SELECT
	    COALESCE(s.cashier_id::text, '')                      AS key,
	    COALESCE(MAX(u.name), 'Desconocido')                  AS label,
	    SUM(i.quantity)                                       AS quantity,
	    SUM(i.subtotal)                                       AS revenue,
	    SUM(i.subtotal - i.quantity * i.unit_cost)            AS profit,
	    COUNT(DISTINCT s.id)                                  AS sale_count
	FROM sales s
	JOIN sale_items i ON i.sale_id = s.id
	LEFT JOIN users u ON u.id = s.cashier_id
	WHERE s.created_at BETWEEN $1 AND $2
	GROUP BY s.cashier_id
	ORDER BY revenue DESC
	LIMIT $3`
	return r.ranking(ctx, "reports.GetTopCashiers", query, from, to, limit)
}

func (r *ReportRepo) ranking(ctx context.Context, op, query string, from, to time.Time, limit int) ([]repository.RankingRow, error) {
	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []repository.RankingRow
	for rows.Next() {
		var row repository.RankingRow
		if err := rows.Scan(&row.Key, &row.Label, &row.Quantity, &row.Revenue, &row.Profit, &row.SaleCount); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return out, nil
}

// CountLowStock productos con 0 < quantity <= umbral del producto (o el umbral por defecto).
func (r *ReportRepo) CountLowStock(ctx context.Context, defaultThreshold int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE quantity > 0
		  AND quantity <= CASE WHEN min_stock_level > 0 THEN min_stock_level ELSE $1 END`,
		defaultThreshold,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("reports.CountLowStock: %w", err)
	}
	return n, nil
}
