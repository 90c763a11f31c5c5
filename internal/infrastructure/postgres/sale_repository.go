package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const insertSaleItem = `
	INSERT INTO sale_items (id, sale_id, product_id, product_name, category, quantity,
		unit_price, unit_cost, subtotal, remaining_stock, line_no)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// SaleRepo ventas e ítems sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Dentro de RunSale recibe la tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y los ítems. Los ítems van en un solo batch.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, cashier_id, total_amount, created_at) VALUES ($1, $2, $3, $4)`,
		sale.ID, nullIfEmpty(sale.CashierID), sale.TotalAmount, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	rows := make([][]any, 0, len(sale.Items))
	for i, it := range sale.Items {
		rows = append(rows, []any{
			it.ID, sale.ID, it.ProductID, it.ProductName, it.Category, it.Quantity,
			it.UnitPrice, it.UnitCost, it.Subtotal, it.RemainingStock, i,
		})
	}
	batch := &pgx.Batch{}
	for _, args := range rows {
		batch.Queue(insertSaleItem, args...)
	}
	if tx, ok := r.q.(pgx.Tx); ok {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert sale items: %w", err)
		}
		return nil
	}
	for _, args := range rows {
		if _, err := r.q.Exec(ctx, insertSaleItem, args...); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus ítems en el orden original del carrito.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if !validID(id) {
		return nil, nil
	}
	var s entity.Sale
	var cashierID *string
	err := r.q.QueryRow(ctx,
		`SELECT id, cashier_id, total_amount, created_at FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &cashierID, &s.TotalAmount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.CashierID = derefString(cashierID)

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, category, quantity, unit_price, unit_cost, subtotal, remaining_stock
		FROM sale_items WHERE sale_id = $1 ORDER BY line_no`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Category, &it.Quantity,
			&it.UnitPrice, &it.UnitCost, &it.Subtotal, &it.RemainingStock); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List historial de ventas (sin ítems), más recientes primero, con total para paginar.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	const where = `
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
		  AND ($3 = '' OR cashier_id::text = $3)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where,
		filter.From, filter.To, filter.CashierID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, cashier_id, total_amount, created_at FROM sales`+where+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		filter.From, filter.To, filter.CashierID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var cashierID *string
		if err := rows.Scan(&s.ID, &cashierID, &s.TotalAmount, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		s.CashierID = derefString(cashierID)
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sales: %w", err)
	}
	return list, total, nil
}
