package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

const (
	historyDays   = 90
	historyLimit  = 500
	idealStockNum = 3 // stock ideal = 1.5 × umbral
	idealStockDen = 2
)

// ReplenishmentUseCase lista de reposición: productos en o bajo su umbral de stock,
// priorizados por margen histórico y volumen de ventas.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	repo     repository.ReportRepository
	policy   alerting.Policy
	log      zerolog.Logger
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	products repository.ProductRepository,
	repo repository.ReportRepository,
	policy alerting.Policy,
	log zerolog.Logger,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, repo: repo, policy: policy, log: log, now: time.Now}
}

// Suggestions devuelve los productos con quantity <= umbral y la cantidad sugerida de pedido.
// El historial de ventas es opcional: si la consulta falla se estima el margen con precio y costo.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	all, err := uc.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reposición: productos: %w", err)
	}

	end := uc.now()
	history, err := uc.repo.GetTopProducts(ctx, end.AddDate(0, 0, -historyDays), end, historyLimit)
	if err != nil {
		uc.log.Warn().Err(err).Msg("reposición sin historial de ventas")
	}
	soldByID := make(map[string]repository.RankingRow, len(history))
	for _, row := range history {
		soldByID[row.Key] = row
	}

	hundred := decimal.NewFromInt(100)
	out := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, p := range all {
		threshold := uc.policy.Threshold(p)
		if p.Quantity > threshold {
			continue
		}
		ideal := (threshold*idealStockNum + idealStockDen - 1) / idealStockDen
		qty := ideal - p.Quantity
		if qty < 0 {
			qty = 0
		}

		s := dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			Barcode:            p.Barcode,
			Name:               p.Name,
			Category:           p.Category,
			CurrentStock:       p.Quantity,
			Threshold:          threshold,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(int64(qty))),
			GrossMarginPct:     decimal.Zero,
		}
		if row, ok := soldByID[p.ID]; ok {
			s.UnitsSold90Days = row.Quantity
			if row.Revenue.IsPositive() {
				s.GrossMarginPct = row.Profit.Div(row.Revenue).Mul(hundred).Round(2)
			}
		} else if p.Price.IsPositive() {
			s.GrossMarginPct = p.Price.Sub(p.CostPrice).Div(p.Price).Mul(hundred).Round(2)
		}
		out = append(out, s)
	}

	// Mayor margen primero, luego más vendido, luego mayor déficit.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSold90Days != b.UnitsSold90Days {
			return a.UnitsSold90Days > b.UnitsSold90Days
		}
		return a.Threshold-a.CurrentStock > b.Threshold-b.CurrentStock
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
