package memory

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria (orden de inserción).
type SaleRepo struct {
	s    *Store
	inTx bool
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	defer r.s.lock(r.inTx)()
	if r.s.FailSaleCreate != nil {
		return r.s.FailSaleCreate
	}
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales = append(r.s.sales, &cp)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.s.lock(r.inTx)()
	for _, s := range r.s.sales {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Sale
	for i := len(r.s.sales) - 1; i >= 0; i-- {
		s := r.s.sales[i]
		if filter.CashierID != "" && s.CashierID != filter.CashierID {
			continue
		}
		if filter.From != nil && s.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	total := len(out)
	if filter.Offset > len(out) {
		return []*entity.Sale{}, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

// Count devuelve cuántas ventas hay registradas.
func (r *SaleRepo) Count() int {
	defer r.s.lock(r.inTx)()
	return len(r.s.sales)
}
