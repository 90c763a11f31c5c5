package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
)

type spyAlerts struct {
	mu    sync.Mutex
	seen  []entity.Product
	fails error
}

func (s *spyAlerts) EvaluateProductAlerts(_ context.Context, p *entity.Product) (*entity.Alert, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, *p)
	return nil, false, s.fails
}

func (s *spyAlerts) calls() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Product(nil), s.seen...)
}

func newProductUC(t *testing.T, products ...*entity.Product) (*usecase.ProductUseCase, *memory.Store, *spyAlerts) {
	t.Helper()
	store := memory.NewStore()
	for _, p := range products {
		require.NoError(t, store.Products().Create(context.Background(), p))
	}
	spy := &spyAlerts{}
	return usecase.NewProductUseCase(store.Products(), store, spy, zerolog.Nop()), store, spy
}

func rice(qty int) *entity.Product {
	return &entity.Product{
		ID:            "p-rice",
		Name:          "Arroz",
		Barcode:       "7701",
		Price:         decimal.RequireFromString("3.50"),
		CostPrice:     decimal.RequireFromString("2.00"),
		Quantity:      qty,
		MinStockLevel: 5,
	}
}

func checkout(store *memory.Store) *sales.ProcessSaleUseCase {
	return sales.NewProcessSaleUseCase(store, nil, nil, nil, time.Second, zerolog.Nop())
}

func sellOne(ctx context.Context, uc *sales.ProcessSaleUseCase, productID string) error {
	_, err := uc.ProcessSale(ctx, sales.SaleInput{Lines: []sales.LineInput{{ProductID: productID, Quantity: 1}}})
	return err
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateProduct_CodigoDeBarrasDuplicado(t *testing.T) {
	uc, _, spy := newProductUC(t, rice(10))

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Otro arroz", Barcode: " 7701 ", Price: decimal.NewFromInt(1), Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, spy.calls())
}

func TestCreateProduct_ValoresNegativos(t *testing.T) {
	uc, _, _ := newProductUC(t)
	ctx := context.Background()

	cases := map[string]dto.CreateProductRequest{
		"cantidad":     {Name: "Sal", Quantity: -1},
		"stock mínimo": {Name: "Sal", MinStockLevel: -1},
		"precio":       {Name: "Sal", Price: decimal.NewFromInt(-1)},
		"costo":        {Name: "Sal", CostPrice: decimal.NewFromInt(-1)},
		"sin nombre":   {Name: "   ", Quantity: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateProduct_EvaluaAlertas(t *testing.T) {
	uc, store, spy := newProductUC(t)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "  Azúcar ", Price: decimal.NewFromInt(2), Quantity: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Azúcar", out.Name)

	calls := spy.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, out.ID, calls[0].ID)
	assert.Equal(t, 0, calls[0].Quantity)

	saved, err := store.Products().GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestCreateProduct_FalloDeAlertasNoBloquea(t *testing.T) {
	uc, _, spy := newProductUC(t)
	spy.fails = fmt.Errorf("redis caído")

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Café", Quantity: 2})
	assert.NoError(t, err)
}

func TestUpdateProduct_Parcial(t *testing.T) {
	expiry := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	p := rice(10)
	p.ExpiryDate = &expiry
	uc, store, spy := newProductUC(t, p)

	out, err := uc.Update(context.Background(), "p-rice", dto.UpdateProductRequest{
		Quantity:    intPtr(3),
		ClearExpiry: true,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Arroz", out.Name)
	assert.Equal(t, 3, out.Quantity)
	assert.Nil(t, out.ExpiryDate)

	saved, _ := store.Products().GetByID(context.Background(), "p-rice")
	assert.Equal(t, 3, saved.Quantity)
	assert.Nil(t, saved.ExpiryDate)

	calls := spy.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].Quantity)
}

func TestUpdateProduct_Inexistente(t *testing.T) {
	uc, _, spy := newProductUC(t)

	out, err := uc.Update(context.Background(), "p-ghost", dto.UpdateProductRequest{Name: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, spy.calls())
}

func TestUpdateProduct_InvalidoNoModifica(t *testing.T) {
	uc, store, _ := newProductUC(t, rice(10))

	_, err := uc.Update(context.Background(), "p-rice", dto.UpdateProductRequest{
		Name:     strPtr("Arroz integral"),
		Quantity: intPtr(-4),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	saved, _ := store.Products().GetByID(context.Background(), "p-rice")
	assert.Equal(t, "Arroz", saved.Name)
	assert.Equal(t, 10, saved.Quantity)
}

func TestUpdateProduct_CodigoDeOtroProducto(t *testing.T) {
	other := &entity.Product{ID: "p-beans", Name: "Fríjol", Barcode: "7702", Quantity: 4}
	uc, _, _ := newProductUC(t, rice(10), other)

	_, err := uc.Update(context.Background(), "p-rice", dto.UpdateProductRequest{Barcode: strPtr("7702")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := uc.Update(context.Background(), "p-rice", dto.UpdateProductRequest{Barcode: strPtr("7701")})
	require.NoError(t, err)
	assert.Equal(t, "7701", out.Barcode)
}

func TestUpdateProduct_VentaPreviaNoSePierde(t *testing.T) {
	uc, store, _ := newProductUC(t, rice(10))
	ctx := context.Background()

	require.NoError(t, sellOne(ctx, checkout(store), "p-rice"))

	out, err := uc.Update(ctx, "p-rice", dto.UpdateProductRequest{Name: strPtr("Arroz Diana")})
	require.NoError(t, err)
	assert.Equal(t, "Arroz Diana", out.Name)
	assert.Equal(t, 9, out.Quantity)
}

// lockedEdit deja entrar una venta justo después de que la edición lee la fila.
type lockedEdit struct {
	store  *memory.Store
	onRead func()
}

func (l *lockedEdit) RunProductEdit(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	return l.store.RunProductEdit(ctx, func(products repository.ProductRepository) error {
		return fn(&readHook{ProductRepository: products, after: l.onRead})
	})
}

type readHook struct {
	repository.ProductRepository
	after func()
}

func (r *readHook) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.ProductRepository.GetForUpdate(ctx, id)
	r.after()
	return p, err
}

func TestUpdateProduct_VentaConcurrenteEsperaLaEdicion(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(context.Background(), rice(10)))
	ctx := context.Background()

	saleDone := make(chan error, 1)
	edit := &lockedEdit{store: store}
	edit.onRead = func() {
		go func() { saleDone <- sellOne(ctx, checkout(store), "p-rice") }()
		select {
		case err := <-saleDone:
			t.Errorf("la venta no debe completarse con la fila bloqueada: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
	}
	uc := usecase.NewProductUseCase(store.Products(), edit, nil, zerolog.Nop())

	out, err := uc.Update(ctx, "p-rice", dto.UpdateProductRequest{Name: strPtr("Arroz Roa")})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Quantity)

	select {
	case err := <-saleDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("la venta quedó bloqueada")
	}

	saved, _ := store.Products().GetByID(ctx, "p-rice")
	assert.Equal(t, "Arroz Roa", saved.Name)
	assert.Equal(t, 9, saved.Quantity)
}

func TestUpdateProduct_EdicionesYVentasConcurrentes(t *testing.T) {
	uc, store, _ := newProductUC(t, rice(100))
	ctx := context.Background()
	pos := checkout(store)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- sellOne(ctx, pos, "p-rice")
		}()
		go func(i int) {
			defer wg.Done()
			_, err := uc.Update(ctx, "p-rice", dto.UpdateProductRequest{Name: strPtr(fmt.Sprintf("Arroz %d", i))})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	saved, _ := store.Products().GetByID(ctx, "p-rice")
	assert.Equal(t, 100-n, saved.Quantity)
	assert.Equal(t, n, store.Sales().Count())
}

func TestDeleteProduct(t *testing.T) {
	uc, store, _ := newProductUC(t, rice(1))
	ctx := context.Background()

	assert.ErrorIs(t, uc.Delete(ctx, "p-ghost"), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, "p-rice"))

	p, err := store.Products().GetByID(ctx, "p-rice")
	require.NoError(t, err)
	assert.Nil(t, p)
}
