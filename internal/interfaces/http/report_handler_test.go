package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/reports"
	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/tienda-pos/internal/interfaces/http"
)

// emptyReports repositorio de reportes sin movimientos.
type emptyReports struct{}

func (emptyReports) GetSalesMetrics(context.Context, time.Time, time.Time) (repository.SalesMetrics, error) {
	return repository.SalesMetrics{}, nil
}

func (emptyReports) GetExpensesTotal(context.Context, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (emptyReports) GetMonthlySales(context.Context, int) ([]repository.MonthlyAmount, error) {
	return nil, nil
}

func (emptyReports) GetMonthlyExpenses(context.Context, int) ([]repository.MonthlyAmount, error) {
	return nil, nil
}

func (emptyReports) GetTopProducts(context.Context, time.Time, time.Time, int) ([]repository.RankingRow, error) {
	return nil, nil
}

func (emptyReports) GetTopCategories(context.Context, time.Time, time.Time, int) ([]repository.RankingRow, error) {
	return nil, nil
}

func (emptyReports) GetTopCashiers(context.Context, time.Time, time.Time, int) ([]repository.RankingRow, error) {
	return nil, nil
}

func (emptyReports) CountLowStock(context.Context, int) (int, error) { return 0, nil }

func newReportsApp(t *testing.T, store *memory.Store) *fiber.App {
	t.Helper()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ReportUC:  reports.NewUseCase(emptyReports{}, store.Alerts(), nil, time.Minute, 10, zerolog.Nop()),
		Restock:   reports.NewReplenishmentUseCase(store.Products(), emptyReports{}, alerting.DefaultPolicy(), zerolog.Nop()),
		JWTSecret: testJWTSecret,
	})
	return app
}

func TestReplenishment_Admin(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(context.Background(), milk(4)))
	app := newReportsApp(t, store)

	resp, body := get(t, app, "/api/reports/replenishment", tokenForRole(t, "admin"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out []dto.ReplenishmentSuggestionDTO
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "p-milk", out[0].ProductID)
	assert.Equal(t, 11, out[0].SuggestedOrderQty)
	assert.Equal(t, 1, out[0].Priority)
}

func TestReplenishment_CajeroBloqueado(t *testing.T) {
	app := newReportsApp(t, memory.NewStore())

	resp, body := get(t, app, "/api/reports/replenishment", tokenForRole(t, "cashier"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body).Code)
}

func TestMonthlyProfit_AnioFueraDeRango(t *testing.T) {
	app := newReportsApp(t, memory.NewStore())

	resp, body := get(t, app, "/api/reports/monthly-profit?year=1990", tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUERY", errorCode(t, body).Code)
}

func TestDailySummary_FechaInvalida(t *testing.T) {
	app := newReportsApp(t, memory.NewStore())

	resp, _ := get(t, app, "/api/reports/daily-summary?date=10-03-2026", tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
