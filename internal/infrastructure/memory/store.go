// Package memory implementa los puertos de productos, ventas y alertas en memoria.
// Respeta las mismas garantías que el adaptador PostgreSQL (tx todo-o-nada, descuento
// condicional, unicidad de alertas abiertas) y se usa en pruebas de casos de uso y handlers.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var (
	_ sales.TxRunner        = (*Store)(nil)
	_ usecase.ProductEditTx = (*Store)(nil)
)

// Store datos compartidos por los repositorios en memoria.
// Una transacción toma el candado completo: las ventas quedan serializadas.
type Store struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	sales    []*entity.Sale
	alerts   []*entity.Alert

	// FailSaleCreate simula un fallo de persistencia al guardar la venta (pruebas de rollback).
	FailSaleCreate error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{products: make(map[string]*entity.Product)}
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales devuelve el repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Alerts devuelve el repositorio de alertas.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{s: s} }

// RunSale ejecuta fn con el candado tomado; si fn falla restaura productos y ventas.
func (s *Store) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.atomically(ctx, func() error {
		return fn(&ProductRepo{s: s, inTx: true}, &SaleRepo{s: s, inTx: true})
	})
}

// RunProductEdit serializa la edición de un producto con las ventas en curso.
func (s *Store) RunProductEdit(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	return s.atomically(ctx, func() error {
		return fn(&ProductRepo{s: s, inTx: true})
	})
}

func (s *Store) atomically(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	backup := make(map[string]entity.Product, len(s.products))
	for id, p := range s.products {
		backup[id] = *p
	}
	salesLen := len(s.sales)

	err := fn()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.products = make(map[string]*entity.Product, len(backup))
		for id, p := range backup {
			cp := p
			s.products[id] = &cp
		}
		s.sales = s.sales[:salesLen]
		return err
	}
	return nil
}

// lock toma el candado salvo que ya lo tenga la transacción en curso.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func sortedProducts(m map[string]*entity.Product) []*entity.Product {
	list := make([]*entity.Product, 0, len(m))
	for _, p := range m {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
