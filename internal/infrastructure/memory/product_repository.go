package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Devuelve copias para que el caller no mute el store.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	if product.Barcode != "" {
		for _, p := range r.s.products {
			if p.Barcode == product.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	for _, p := range r.s.products {
		if p.Barcode != "" && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	defer r.s.lock(r.inTx)()
	var matched []*entity.Product
	for _, p := range sortedProducts(r.s.products) {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) &&
			p.Barcode != filter.Search {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if filter.Offset > len(matched) {
		return []*entity.Product{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	return sortedProducts(r.s.products), nil
}

// GetForUpdate en memoria el candado ya lo tiene la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) (int, bool, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return 0, false, nil
	}
	if p.Quantity < qty {
		return p.Quantity, false, nil
	}
	p.Quantity -= qty
	return p.Quantity, true, nil
}
