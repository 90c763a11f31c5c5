package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/reports"
	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

type noHistoryRepo struct{ fakeReportRepo }

func (r *noHistoryRepo) GetTopProducts(context.Context, time.Time, time.Time, int) ([]repository.RankingRow, error) {
	return nil, errors.New("consulta caída")
}

func seedCatalog(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	for _, p := range []*entity.Product{
		{ID: "p-1", Name: "Arroz", Price: d("3"), CostPrice: d("2"), Quantity: 2},
		{ID: "p-2", Name: "Frijol", Price: d("4"), CostPrice: d("3"), Quantity: 4},
		{ID: "p-3", Name: "Sal", Price: d("1"), CostPrice: d("0.5"), Quantity: 0},
		{ID: "p-4", Name: "Azúcar", Price: d("2"), CostPrice: d("1"), Quantity: 50},
	} {
		require.NoError(t, store.Products().Create(context.Background(), p))
	}
	return store
}

func TestReplenishment_PrioridadPorMargen(t *testing.T) {
	store := seedCatalog(t)
	uc := reports.NewReplenishmentUseCase(store.Products(), &fakeReportRepo{}, alerting.DefaultPolicy(), zerolog.Nop())

	out, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3, "Azúcar está sobre el umbral")

	// Sal: 50% estimado por precio; Frijol: 5/12 histórico; Arroz: 8/20 histórico.
	assert.Equal(t, []string{"p-3", "p-2", "p-1"}, []string{out[0].ProductID, out[1].ProductID, out[2].ProductID})
	for i, s := range out {
		assert.Equal(t, i+1, s.Priority)
		assert.Equal(t, 10, s.Threshold)
		assert.Equal(t, 15, s.IdealStock)
	}

	arroz := out[2]
	assert.Equal(t, 13, arroz.SuggestedOrderQty)
	assert.True(t, arroz.EstimatedOrderCost.Equal(d("26")), arroz.EstimatedOrderCost.String())
	assert.True(t, arroz.GrossMarginPct.Equal(d("40")), arroz.GrossMarginPct.String())
	assert.Equal(t, 10, arroz.UnitsSold90Days)
	assert.Equal(t, 0, out[0].UnitsSold90Days)
}

func TestReplenishment_SinHistorialUsaPrecioYCosto(t *testing.T) {
	store := seedCatalog(t)
	uc := reports.NewReplenishmentUseCase(store.Products(), &noHistoryRepo{}, alerting.DefaultPolicy(), zerolog.Nop())

	out, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "p-3", out[0].ProductID)
	// Arroz (3-2)/3 = 33.33% supera a Frijol (4-3)/4 = 25%.
	assert.Equal(t, "p-1", out[1].ProductID)
	assert.True(t, out[1].GrossMarginPct.Equal(d("33.33")), out[1].GrossMarginPct.String())
}

func TestReplenishment_UmbralDelProducto(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(context.Background(),
		&entity.Product{ID: "p-9", Name: "Aceite", Price: d("5"), CostPrice: d("4"), Quantity: 18, MinStockLevel: 20}))
	uc := reports.NewReplenishmentUseCase(store.Products(), &noHistoryRepo{}, alerting.DefaultPolicy(), zerolog.Nop())

	out, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 30, out[0].IdealStock)
	assert.Equal(t, 12, out[0].SuggestedOrderQty)
}

func TestReplenishment_CatalogoVacio(t *testing.T) {
	uc := reports.NewReplenishmentUseCase(memory.NewStore().Products(), &fakeReportRepo{}, alerting.DefaultPolicy(), zerolog.Nop())
	out, err := uc.Suggestions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}
