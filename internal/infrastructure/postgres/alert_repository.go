package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, kind, message, product_id, status, created_at, resolved_at`

// AlertRepo alertas sobre PostgreSQL. La unicidad de alertas abiertas la garantiza
// el índice parcial ux_alerts_open (kind, message) WHERE status <> 'resolved'.
type AlertRepo struct {
	pool *pgxpool.Pool
}

func NewAlertRepository(pool *pgxpool.Pool) *AlertRepo {
	return &AlertRepo{pool: pool}
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	if err := row.Scan(&a.ID, &a.Kind, &a.Message, &a.ProductID, &a.Status, &a.CreatedAt, &a.ResolvedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AlertRepo) FindOpen(ctx context.Context, kind, message string) (*entity.Alert, error) {
	a, err := scanAlert(r.pool.QueryRow(ctx, `
		SELECT `+alertColumns+` FROM alerts
		WHERE kind = $1 AND message = $2 AND status <> 'resolved'
		LIMIT 1`, kind, message))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open alert: %w", err)
	}
	return a, nil
}

// Create inserta salvo conflicto con una alerta abierta; en ese caso created=false.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kind, message) WHERE status <> 'resolved' DO NOTHING`,
		a.ID, a.Kind, a.Message, a.ProductID, a.Status, a.CreatedAt, a.ResolvedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	if !validID(id) {
		return nil, nil
	}
	a, err := scanAlert(r.pool.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

func (r *AlertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+` FROM alerts
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, filter.Status, filter.Kind, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepo) ListOpen(ctx context.Context) ([]*entity.Alert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE status <> 'resolved' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return n, nil
}

func (r *AlertRepo) UpdateStatus(ctx context.Context, id, status string, resolvedAt *time.Time) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx,
		`UPDATE alerts SET status = $2, resolved_at = $3 WHERE id = $1`, id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) MarkAllRead(ctx context.Context) (int, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE alerts SET status = 'read' WHERE status = 'unread'`)
	if err != nil {
		return 0, fmt.Errorf("mark all alerts read: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func collectAlerts(rows pgx.Rows) ([]*entity.Alert, error) {
	list := make([]*entity.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
