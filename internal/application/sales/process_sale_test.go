package sales_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/alerts"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

type fixture struct {
	store     *memory.Store
	alertRepo *memory.AlertRepo
	uc        *sales.ProcessSaleUseCase
	inv       *countingInvalidator
}

type countingInvalidator struct{ calls atomic.Int32 }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls.Add(1)
	return nil
}

func newFixture(t *testing.T, products ...*entity.Product) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, p := range products {
		require.NoError(t, store.Products().Create(context.Background(), p))
	}
	alertRepo := store.Alerts()
	evaluator := alerts.NewEvaluator(alertRepo, alerting.DefaultPolicy(), nil, zerolog.Nop())
	inv := &countingInvalidator{}
	uc := sales.NewProcessSaleUseCase(store, evaluator, nil, inv, time.Second, zerolog.Nop())
	return &fixture{store: store, alertRepo: alertRepo, uc: uc, inv: inv}
}

func newProduct(id, name string, qty int, price string) *entity.Product {
	return &entity.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		CostPrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		Quantity:  qty,
	}
}

func quantityOf(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func line(id string, qty int, price string) sales.LineInput {
	return sales.LineInput{ProductID: id, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestProcessSale_VentaSimpleDescuentaStock(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 5, "2.00"))

	res, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		CashierID: "u-1",
		Lines:     []sales.LineInput{line("p-1", 3, "2.00")},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, quantityOf(t, f.store, "p-1"))
	assert.True(t, res.Sale.TotalAmount.Equal(decimal.RequireFromString("6.00")))
	require.Len(t, res.Remaining, 1)
	assert.Equal(t, 2, res.Remaining[0].RemainingStock)
	assert.Equal(t, "Arroz", res.Remaining[0].Name)
	assert.Equal(t, 1, f.store.Sales().Count())
	assert.EqualValues(t, 1, f.inv.calls.Load())
}

func TestProcessSale_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 2, "1.00"))

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 5, "1.00")},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.Contains(t, err.Error(), "Arroz")
	assert.Equal(t, 2, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, 0, f.store.Sales().Count())
	assert.EqualValues(t, 0, f.inv.calls.Load())
}

func TestProcessSale_CarritoVacio(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 2, "1.00"))

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{})

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.ErrorAs(t, err, &domain.EmptyCartError{})
	assert.Equal(t, 2, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, 0, f.store.Sales().Count())
}

func TestProcessSale_LineaInvalida(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 2, "1.00"))

	cases := []sales.LineInput{
		{ProductID: "", Quantity: 1},
		{ProductID: "p-1", Quantity: 0},
		{ProductID: "p-1", Quantity: -2},
		{ProductID: "p-1", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)},
	}
	for _, l := range cases {
		_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{Lines: []sales.LineInput{l}})
		var lineErr *domain.InvalidLineError
		require.ErrorAs(t, err, &lineErr)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 2, quantityOf(t, f.store, "p-1"))
}

func TestProcessSale_ProductoInexistenteRevierteTodo(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 5, "1.00"))

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 1, "1.00"), line("p-x", 1, "1.00")},
	})

	var nf *domain.ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "p-x", nf.ProductID)
	assert.Equal(t, 5, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, 0, f.store.Sales().Count())
}

func TestProcessSale_MultiLineaTodoONada(t *testing.T) {
	f := newFixture(t,
		newProduct("p-1", "Arroz", 5, "1.00"),
		newProduct("p-2", "Frijol", 1, "3.00"),
	)

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 2, "1.00"), line("p-2", 2, "3.00")},
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, 1, quantityOf(t, f.store, "p-2"))
}

func TestProcessSale_LineasRepetidasAcumulanDemanda(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 5, "1.00"))

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 3, "1.00"), line("p-1", 3, "1.00")},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, quantityOf(t, f.store, "p-1"))

	res, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 3, "1.00"), line("p-1", 2, "1.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, quantityOf(t, f.store, "p-1"))
	require.Len(t, res.Remaining, 2)
	assert.Equal(t, 2, res.Remaining[0].RemainingStock)
	assert.Equal(t, 0, res.Remaining[1].RemainingStock)
}

func TestProcessSale_ConservaStockYTotal(t *testing.T) {
	f := newFixture(t,
		newProduct("p-1", "Arroz", 10, "1.25"),
		newProduct("p-2", "Frijol", 8, "3.10"),
		newProduct("p-3", "Sal", 4, "0.80"),
	)

	res, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-2", 3, "3.10"), line("p-1", 4, "1.25")},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, 5, quantityOf(t, f.store, "p-2"))
	assert.Equal(t, 4, quantityOf(t, f.store, "p-3"), "un producto fuera del carrito no cambia")

	want := decimal.RequireFromString("3.10").Mul(decimal.NewFromInt(3)).
		Add(decimal.RequireFromString("1.25").Mul(decimal.NewFromInt(4)))
	assert.True(t, res.Sale.TotalAmount.Equal(want), "total %s, esperado %s", res.Sale.TotalAmount, want)
	assert.True(t, res.Sale.TotalAmount.Equal(entity.ComputeTotal(res.Sale.Items)))
}

func TestProcessSale_PrecioCeroUsaCatalogo(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 5, "2.50"))

	res, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{{ProductID: "p-1", Quantity: 2}},
	})

	require.NoError(t, err)
	assert.True(t, res.Sale.Items[0].UnitPrice.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, res.Sale.TotalAmount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, res.Sale.Items[0].UnitCost.Equal(decimal.RequireFromString("1.25")))
}

func TestProcessSale_GeneraAlertaTrasVenta(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 3, "1.00"))

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 3, "1.00")},
	})
	require.NoError(t, err)

	all := f.alertRepo.All()
	require.Len(t, all, 1)
	assert.Equal(t, entity.AlertKindOutOfStock, all[0].Kind)
	assert.Equal(t, "p-1", all[0].ProductID)
}

func TestProcessSale_FalloDeAlertaNoRevierteVenta(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 3, "1.00"))
	f.alertRepo.FailCreate = errors.New("db caída")

	res, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 3, "1.00")},
	})

	require.NoError(t, err)
	require.NotNil(t, res.Sale)
	assert.Equal(t, 0, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, 1, f.store.Sales().Count())
	assert.Empty(t, f.alertRepo.All())
}

func TestProcessSale_FalloAlGuardarVentaHaceRollback(t *testing.T) {
	f := newFixture(t, newProduct("p-1", "Arroz", 5, "1.00"))
	f.store.FailSaleCreate = errors.New("disco lleno")

	_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 2, "1.00")},
	})

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 5, quantityOf(t, f.store, "p-1"))
}

// blockingRunner espera a que venza el contexto, como una tx bloqueada por otra sesión.
type blockingRunner struct{}

func (blockingRunner) RunSale(ctx context.Context, _ func(repository.ProductRepository, repository.SaleRepository) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestProcessSale_TimeoutDeAlmacenamiento(t *testing.T) {
	uc := sales.NewProcessSaleUseCase(blockingRunner{}, nil, nil, nil, 20*time.Millisecond, zerolog.Nop())

	_, err := uc.ProcessSale(context.Background(), sales.SaleInput{
		Lines: []sales.LineInput{line("p-1", 1, "1.00")},
	})

	var timeoutErr *domain.StorageTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.ErrorIs(t, err, domain.ErrStorageTimeout)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestProcessSale_ConcurrenciaNoSobrevende(t *testing.T) {
	const stock, buyers = 7, 20
	f := newFixture(t, newProduct("p-1", "Arroz", stock, "1.00"))

	var ok, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.ProcessSale(context.Background(), sales.SaleInput{
				Lines: []sales.LineInput{line("p-1", 1, "1.00")},
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, stock, ok.Load())
	assert.EqualValues(t, buyers-stock, rejected.Load())
	assert.Equal(t, 0, quantityOf(t, f.store, "p-1"))
	assert.Equal(t, stock, f.store.Sales().Count())

	outOfStock := 0
	for _, a := range f.alertRepo.All() {
		if a.Kind == entity.AlertKindOutOfStock {
			outOfStock++
		}
	}
	assert.Equal(t, 1, outOfStock, "una sola alerta de agotado")
}
