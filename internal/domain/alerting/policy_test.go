package alerting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func product(qty int, expiry *time.Time) *entity.Product {
	return &entity.Product{ID: "p-1", Name: "Leche", Quantity: qty, ExpiryDate: expiry}
}

func at(t time.Time) *time.Time { return &t }

func TestEvaluate_ExpiradoTienePrioridadSobreAgotado(t *testing.T) {
	policy := alerting.DefaultPolicy()
	c, ok := policy.Evaluate(product(0, at(now.AddDate(0, 0, -1))), now)

	require.True(t, ok)
	assert.Equal(t, entity.AlertKindExpired, c.Kind)
	assert.Contains(t, c.Message, "2026-03-09")
	assert.Equal(t, "p-1", c.ProductID)
}

func TestEvaluate_ExpiradoNoGeneraStockBajo(t *testing.T) {
	policy := alerting.DefaultPolicy()
	c, ok := policy.Evaluate(product(5, at(now.AddDate(0, 0, -1))), now)

	require.True(t, ok)
	assert.Equal(t, entity.AlertKindExpired, c.Kind)
}

func TestEvaluate_Agotado(t *testing.T) {
	c, ok := alerting.DefaultPolicy().Evaluate(product(0, nil), now)

	require.True(t, ok)
	assert.Equal(t, entity.AlertKindOutOfStock, c.Kind)
}

func TestEvaluate_StockBajoConUmbralPorDefecto(t *testing.T) {
	policy := alerting.DefaultPolicy()

	c, ok := policy.Evaluate(product(10, nil), now)
	require.True(t, ok)
	assert.Equal(t, entity.AlertKindLowStock, c.Kind)
	assert.Contains(t, c.Message, "10")

	_, ok = policy.Evaluate(product(11, nil), now)
	assert.False(t, ok, "11 unidades supera el umbral de 10")
}

func TestEvaluate_StockBajoConMinimoDelProducto(t *testing.T) {
	p := product(20, nil)
	p.MinStockLevel = 25

	c, ok := alerting.DefaultPolicy().Evaluate(p, now)
	require.True(t, ok)
	assert.Equal(t, entity.AlertKindLowStock, c.Kind)

	p.MinStockLevel = 3
	_, ok = alerting.DefaultPolicy().Evaluate(p, now)
	assert.False(t, ok)
}

func TestEvaluate_PorVencer(t *testing.T) {
	c, ok := alerting.DefaultPolicy().Evaluate(product(50, at(now.AddDate(0, 0, 3))), now)

	require.True(t, ok)
	assert.Equal(t, entity.AlertKindExpiringSoon, c.Kind)

	_, ok = alerting.DefaultPolicy().Evaluate(product(50, at(now.AddDate(0, 0, 30))), now)
	assert.False(t, ok)
}

func TestEvaluate_SinCondicion(t *testing.T) {
	_, ok := alerting.DefaultPolicy().Evaluate(product(100, nil), now)
	assert.False(t, ok)
}

func TestEvaluate_MensajeEstable(t *testing.T) {
	policy := alerting.DefaultPolicy()
	p := product(0, nil)

	c1, _ := policy.Evaluate(p, now)
	c2, _ := policy.Evaluate(p, now.Add(time.Hour))
	assert.Equal(t, c1, c2, "el mismo estado debe producir la misma condición")
}

func TestConditions_NoExcluyentes(t *testing.T) {
	policy := alerting.DefaultPolicy()

	conds := policy.Conditions(product(4, at(now.AddDate(0, 0, 2))), now)
	kinds := make([]string, 0, len(conds))
	for _, c := range conds {
		kinds = append(kinds, c.Kind)
	}
	assert.ElementsMatch(t, []string{entity.AlertKindExpiringSoon, entity.AlertKindLowStock}, kinds)

	conds = policy.Conditions(product(0, at(now.AddDate(0, 0, -2))), now)
	kinds = kinds[:0]
	for _, c := range conds {
		kinds = append(kinds, c.Kind)
	}
	assert.ElementsMatch(t, []string{entity.AlertKindExpired, entity.AlertKindOutOfStock}, kinds)
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 1, alerting.DaysUntil(now, now.Add(2*time.Hour)))
	assert.Equal(t, 7, alerting.DaysUntil(now, now.AddDate(0, 0, 7)))
	assert.Equal(t, 0, alerting.DaysUntil(now, now))
}
