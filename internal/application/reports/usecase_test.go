package reports_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/reports"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

type fakeReportRepo struct {
	metricsCalls atomic.Int32
	delay        time.Duration
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (r *fakeReportRepo) GetSalesMetrics(context.Context, time.Time, time.Time) (repository.SalesMetrics, error) {
	r.metricsCalls.Add(1)
	time.Sleep(r.delay)
	return repository.SalesMetrics{SalesCount: 4, ItemsSold: 9, Revenue: d("120.50"), Cost: d("70.25")}, nil
}

func (r *fakeReportRepo) GetExpensesTotal(context.Context, time.Time, time.Time) (decimal.Decimal, error) {
	return d("20"), nil
}

func (r *fakeReportRepo) GetMonthlySales(context.Context, int) ([]repository.MonthlyAmount, error) {
	return []repository.MonthlyAmount{
		{Month: 1, Revenue: d("100"), Cost: d("60")},
		{Month: 3, Revenue: d("50"), Cost: d("20")},
	}, nil
}

func (r *fakeReportRepo) GetMonthlyExpenses(context.Context, int) ([]repository.MonthlyAmount, error) {
	return []repository.MonthlyAmount{{Month: 1, Revenue: d("15")}, {Month: 2, Revenue: d("5")}}, nil
}

func (r *fakeReportRepo) GetTopProducts(_ context.Context, _, _ time.Time, limit int) ([]repository.RankingRow, error) {
	rows := []repository.RankingRow{
		{Key: "p-1", Label: "Arroz", Quantity: 10, Revenue: d("20"), Profit: d("8"), SaleCount: 3},
		{Key: "p-2", Label: "Frijol", Quantity: 4, Revenue: d("12"), Profit: d("5"), SaleCount: 2},
	}
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeReportRepo) GetTopCategories(context.Context, time.Time, time.Time, int) ([]repository.RankingRow, error) {
	return nil, errors.New("sin categorías")
}

func (r *fakeReportRepo) GetTopCashiers(context.Context, time.Time, time.Time, int) ([]repository.RankingRow, error) {
	return []repository.RankingRow{{Key: "u-1", Label: "Ana", SaleCount: 7, Revenue: d("300")}}, nil
}

func (r *fakeReportRepo) CountLowStock(context.Context, int) (int, error) { return 3, nil }

// mapCache caché en memoria que serializa como JSON, igual que el adaptador Redis.
type mapCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	failGet bool
}

func newMapCache() *mapCache { return &mapCache{items: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("redis caído")
	}
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func newUseCase(repo *fakeReportRepo, cache *mapCache) *reports.UseCase {
	store := memory.NewStore()
	return reports.NewUseCase(repo, store.Alerts(), cache, time.Minute, 10, zerolog.Nop())
}

func TestMonthlyProfit(t *testing.T) {
	uc := newUseCase(&fakeReportRepo{}, newMapCache())

	report, err := uc.MonthlyProfit(context.Background(), 2026)
	require.NoError(t, err)

	require.Len(t, report.Months, 12)
	jan := report.Months[0]
	assert.Equal(t, "Enero", jan.Label)
	assert.True(t, jan.GrossProfit.Equal(d("40")))
	assert.True(t, jan.NetProfit.Equal(d("25")))
	feb := report.Months[1]
	assert.True(t, feb.Revenue.IsZero())
	assert.True(t, feb.NetProfit.Equal(d("-5")))
	assert.True(t, report.Totals.Revenue.Equal(d("150")))
	assert.True(t, report.Totals.NetProfit.Equal(d("50")))
}

func TestDailySummary_UsaCacheEInvalidate(t *testing.T) {
	repo := &fakeReportRepo{}
	uc := newUseCase(repo, newMapCache())
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	s, err := uc.DailySummary(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", s.From)
	assert.Equal(t, "2026-03-10", s.To)
	assert.True(t, s.Profit.Equal(d("30.25")))

	_, err = uc.DailySummary(context.Background(), day)
	require.NoError(t, err)
	assert.EqualValues(t, 1, repo.metricsCalls.Load(), "la segunda lectura sale de caché")

	require.NoError(t, uc.Invalidate(context.Background()))
	_, err = uc.DailySummary(context.Background(), day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, repo.metricsCalls.Load())
}

func TestDailySummary_CacheCaidaVaALaBD(t *testing.T) {
	repo := &fakeReportRepo{}
	cache := newMapCache()
	cache.failGet = true
	uc := newUseCase(repo, cache)

	s, err := uc.DailySummary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, s.SalesCount)
}

func TestDailySummary_SingleflightColapsaLecturas(t *testing.T) {
	repo := &fakeReportRepo{delay: 50 * time.Millisecond}
	uc := newUseCase(repo, newMapCache())
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.DailySummary(context.Background(), day)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, repo.metricsCalls.Load(), int32(2))
}

func TestRankings(t *testing.T) {
	uc := newUseCase(&fakeReportRepo{}, newMapCache())
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	top, err := uc.TopProducts(context.Background(), from, to, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Arroz", top[0].Name)

	cashiers, err := uc.TopCashiers(context.Background(), from, to, 0)
	require.NoError(t, err)
	require.Len(t, cashiers, 1)
	assert.Equal(t, 7, cashiers[0].SaleCount)

	_, err = uc.TopCategories(context.Background(), from, to, 5)
	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	uc := newUseCase(&fakeReportRepo{}, newMapCache())

	dash, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, dash.Today.SalesCount)
	assert.True(t, dash.Month.Revenue.Equal(d("120.50")))
	assert.Len(t, dash.TopProducts, 2)
	assert.Equal(t, 3, dash.LowStockCount)
	assert.Zero(t, dash.UnreadAlerts)
	assert.NotEmpty(t, dash.DateLabel)
}
