package sales

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el historial de ventas.
type HistoryUseCase struct {
	repo repository.SaleRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(repo repository.SaleRepository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// GetByID obtiene una venta con sus ítems. nil si no existe.
func (uc *HistoryUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	out := toSaleResponse(sale)
	return &out, nil
}

// List lista ventas por rango de fechas y/o cajero, paginado.
func (uc *HistoryUseCase) List(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// ToCreateSaleResponse adapta el resultado del checkout al DTO HTTP.
func ToCreateSaleResponse(res *SaleResult) *dto.CreateSaleResponse {
	remaining := make([]dto.RemainingStockResponse, 0, len(res.Remaining))
	for _, r := range res.Remaining {
		remaining = append(remaining, dto.RemainingStockResponse{
			ProductID:      r.ProductID,
			Name:           r.Name,
			RemainingStock: r.RemainingStock,
		})
	}
	return &dto.CreateSaleResponse{Sale: toSaleResponse(res.Sale), Remaining: remaining}
}

// FromRequest adapta el body HTTP a la entrada del checkout.
func FromRequest(cashierID string, in dto.CreateSaleRequest) SaleInput {
	lines := make([]LineInput, 0, len(in.Products))
	for _, p := range in.Products {
		lines = append(lines, LineInput{
			ProductID: p.Product,
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.Price,
		})
	}
	return SaleInput{CashierID: cashierID, Lines: lines}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:      it.ProductID,
			Name:           it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Subtotal:       it.Subtotal,
			RemainingStock: it.RemainingStock,
		})
	}
	return dto.SaleResponse{
		ID:          s.ID,
		CashierID:   s.CashierID,
		TotalAmount: s.TotalAmount,
		Items:       items,
		CreatedAt:   s.CreatedAt,
	}
}
