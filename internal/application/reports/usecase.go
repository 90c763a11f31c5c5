// Package reports contiene las proyecciones de solo lectura sobre ventas y gastos:
// utilidad mensual, rankings, resumen diario y dashboard.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

const (
	keyPrefix        = "reports:"
	dashboardTopSize = 5
	defaultTopLimit  = 10
	maxTopLimit      = 100
)

// UseCase reportes con caché (cache-aside). Las lecturas concurrentes de la misma clave
// se colapsan en una sola consulta con singleflight; si la caché falla se va directo a la BD.
type UseCase struct {
	repo            repository.ReportRepository
	alerts          repository.AlertRepository
	cache           ports.Cache
	ttl             time.Duration
	lowStockDefault int
	group           singleflight.Group
	log             zerolog.Logger
	now             func() time.Time
}

// NewUseCase construye el caso de uso. cache nil equivale a no cachear.
func NewUseCase(
	repo repository.ReportRepository,
	alerts repository.AlertRepository,
	cache ports.Cache,
	ttl time.Duration,
	lowStockDefault int,
	log zerolog.Logger,
) *UseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &UseCase{
		repo:            repo,
		alerts:          alerts,
		cache:           cache,
		ttl:             ttl,
		lowStockDefault: lowStockDefault,
		log:             log,
		now:             time.Now,
	}
}

// Invalidate borra todos los reportes cacheados. Se llama después de cada venta o gasto.
func (uc *UseCase) Invalidate(ctx context.Context) error {
	return uc.cache.DeletePrefix(ctx, keyPrefix)
}

// MonthlyProfit utilidad de los 12 meses del año: ingresos, costo de lo vendido, gastos,
// utilidad bruta y neta.
func (uc *UseCase) MonthlyProfit(ctx context.Context, year int) (*dto.MonthlyProfitReport, error) {
	key := fmt.Sprintf("%smonthly-profit:%d", keyPrefix, year)
	return cached(ctx, uc, key, func(ctx context.Context) (*dto.MonthlyProfitReport, error) {
		sales, err := uc.repo.GetMonthlySales(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("utilidad mensual: ventas: %w", err)
		}
		expenses, err := uc.repo.GetMonthlyExpenses(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("utilidad mensual: gastos: %w", err)
		}

		report := &dto.MonthlyProfitReport{Year: year, Months: make([]dto.MonthlyProfitDTO, 12)}
		for i := range report.Months {
			report.Months[i] = dto.MonthlyProfitDTO{
				Month:    i + 1,
				Label:    monthNames[i],
				Revenue:  decimal.Zero,
				Cost:     decimal.Zero,
				Expenses: decimal.Zero,
			}
		}
		for _, s := range sales {
			if s.Month < 1 || s.Month > 12 {
				continue
			}
			report.Months[s.Month-1].Revenue = s.Revenue
			report.Months[s.Month-1].Cost = s.Cost
		}
		for _, e := range expenses {
			if e.Month < 1 || e.Month > 12 {
				continue
			}
			report.Months[e.Month-1].Expenses = e.Revenue
		}

		totals := dto.MonthlyProfitDTO{Label: "Total", Revenue: decimal.Zero, Cost: decimal.Zero, Expenses: decimal.Zero}
		for i := range report.Months {
			m := &report.Months[i]
			m.GrossProfit = m.Revenue.Sub(m.Cost).Round(2)
			m.NetProfit = m.GrossProfit.Sub(m.Expenses).Round(2)
			totals.Revenue = totals.Revenue.Add(m.Revenue)
			totals.Cost = totals.Cost.Add(m.Cost)
			totals.Expenses = totals.Expenses.Add(m.Expenses)
		}
		totals.GrossProfit = totals.Revenue.Sub(totals.Cost).Round(2)
		totals.NetProfit = totals.GrossProfit.Sub(totals.Expenses).Round(2)
		report.Totals = totals
		return report, nil
	})
}

// TopProducts productos más vendidos (por cantidad) en el rango.
func (uc *UseCase) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]dto.RankingDTO, error) {
	return uc.ranking(ctx, "top-products", from, to, limit, uc.repo.GetTopProducts)
}

// TopCategories categorías con más ingresos en el rango.
func (uc *UseCase) TopCategories(ctx context.Context, from, to time.Time, limit int) ([]dto.RankingDTO, error) {
	return uc.ranking(ctx, "top-categories", from, to, limit, uc.repo.GetTopCategories)
}

// TopCashiers cajeros con más ventas en el rango.
func (uc *UseCase) TopCashiers(ctx context.Context, from, to time.Time, limit int) ([]dto.RankingDTO, error) {
	return uc.ranking(ctx, "top-cashiers", from, to, limit, uc.repo.GetTopCashiers)
}

func (uc *UseCase) ranking(
	ctx context.Context,
	name string,
	from, to time.Time,
	limit int,
	query func(ctx context.Context, from, to time.Time, limit int) ([]repository.RankingRow, error),
) ([]dto.RankingDTO, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	key := fmt.Sprintf("%s%s:%d:%d:%d", keyPrefix, name, from.Unix(), to.Unix(), limit)
	return cached(ctx, uc, key, func(ctx context.Context) ([]dto.RankingDTO, error) {
		rows, err := query(ctx, from, to, limit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out := make([]dto.RankingDTO, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.RankingDTO{
				ID:        r.Key,
				Name:      r.Label,
				Quantity:  r.Quantity,
				Revenue:   r.Revenue.Round(2),
				Profit:    r.Profit.Round(2),
				SaleCount: r.SaleCount,
			})
		}
		return out, nil
	})
}

// DailySummary resumen de un día calendario (en la zona horaria de date).
func (uc *UseCase) DailySummary(ctx context.Context, date time.Time) (*dto.SummaryDTO, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return uc.summary(ctx, start, start.Add(24*time.Hour-time.Nanosecond))
}

func (uc *UseCase) summary(ctx context.Context, from, to time.Time) (*dto.SummaryDTO, error) {
	key := fmt.Sprintf("%ssummary:%d:%d", keyPrefix, from.Unix(), to.Unix())
	return cached(ctx, uc, key, func(ctx context.Context) (*dto.SummaryDTO, error) {
		m, err := uc.repo.GetSalesMetrics(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("resumen: métricas de ventas: %w", err)
		}
		expenses, err := uc.repo.GetExpensesTotal(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("resumen: gastos: %w", err)
		}
		return &dto.SummaryDTO{
			From:       from.Format(time.DateOnly),
			To:         to.Format(time.DateOnly),
			SalesCount: m.SalesCount,
			ItemsSold:  m.ItemsSold,
			Revenue:    m.Revenue.Round(2),
			Cost:       m.Cost.Round(2),
			Expenses:   expenses.Round(2),
			Profit:     m.Revenue.Sub(m.Cost).Sub(expenses).Round(2),
		}, nil
	})
}

// Dashboard resumen de hoy y del mes en curso, top 5 productos del mes, alertas sin leer
// y productos con stock bajo. Las consultas corren en paralelo.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type summaryResult struct {
		s   *dto.SummaryDTO
		err error
	}
	type topResult struct {
		rows []dto.RankingDTO
		err  error
	}
	type countResult struct {
		n   int
		err error
	}

	todayCh := make(chan summaryResult, 1)
	monthCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)
	unreadCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)

	go func() {
		s, err := uc.summary(ctx, todayStart, todayEnd)
		todayCh <- summaryResult{s, err}
	}()
	go func() {
		s, err := uc.summary(ctx, monthStart, todayEnd)
		monthCh <- summaryResult{s, err}
	}()
	go func() {
		rows, err := uc.TopProducts(ctx, monthStart, todayEnd, dashboardTopSize)
		topCh <- topResult{rows, err}
	}()
	go func() {
		n, err := uc.alerts.CountByStatus(ctx, entity.AlertStatusUnread)
		unreadCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountLowStock(ctx, uc.lowStockDefault)
		lowCh <- countResult{n, err}
	}()

	today, month, top, unread, low := <-todayCh, <-monthCh, <-topCh, <-unreadCh, <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: resumen del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if unread.err != nil {
		return nil, fmt.Errorf("dashboard: alertas sin leer: %w", unread.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	return &dto.DashboardDTO{
		Today:         *today.s,
		Month:         *month.s,
		TopProducts:   top.rows,
		UnreadAlerts:  unread.n,
		LowStockCount: low.n,
		DateLabel:     monthLabel(now),
	}, nil
}

// cached cache-aside + singleflight. Los errores de caché se registran y no cortan la lectura.
func cached[T any](ctx context.Context, uc *UseCase, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	found, err := uc.cache.Get(ctx, key, &out)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("leer caché de reportes")
	} else if found {
		return out, nil
	}

	v, err, _ := uc.group.Do(key, func() (any, error) {
		res, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.Set(ctx, key, res, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("guardar caché de reportes")
		}
		return res, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}
