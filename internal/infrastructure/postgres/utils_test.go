package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/domain"
)

func TestValidID(t *testing.T) {
	assert.True(t, validID("4f1c2d6e-8a3b-4c5d-9e7f-0a1b2c3d4e5f"))
	assert.False(t, validID("abc"))
	assert.False(t, validID(""))
	assert.False(t, validID("p-milk"))
}

func TestIsBadReference(t *testing.T) {
	assert.True(t, isBadReference(&pgconn.PgError{Code: "22P02"}))
	assert.True(t, isBadReference(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, isBadReference(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isBadReference(errors.New("22P02")))
}

// Con id mal formado los repos responden "no encontrado" sin tocar la base (querier nil).
func TestIDMalFormado_NoConsultaLaBase(t *testing.T) {
	ctx := context.Background()

	products := NewProductRepository(nil)
	p, err := products.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = products.GetForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	remaining, ok, err := products.DecrementStock(ctx, "abc", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, remaining)

	s, err := NewSaleRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, s)

	a, err := NewAlertRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, a)

	err = NewAlertRepository(nil).UpdateStatus(ctx, "abc", "read", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := NewUserRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, u)

	c, err := NewCategoryRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, c)

	sup, err := NewSupplierRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, sup)

	e, err := NewExpenseRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, e)
}
