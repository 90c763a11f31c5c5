package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

const opProcessSale = "procesar venta"

// LineInput línea del carrito. UnitPrice en cero = precio de catálogo.
type LineInput struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// SaleInput entrada del checkout.
type SaleInput struct {
	CashierID string
	Lines     []LineInput
}

// LineRemaining stock que le queda a un producto después de la venta.
type LineRemaining struct {
	ProductID      string
	Name           string
	RemainingStock int
}

// SaleResult venta creada más el stock restante por línea.
type SaleResult struct {
	Sale      *entity.Sale
	Remaining []LineRemaining
}

// ProcessSaleUseCase convierte un carrito en descuentos de stock más una venta inmutable,
// todo dentro de una sola transacción (bloqueo de filas + descuento condicional).
type ProcessSaleUseCase struct {
	txRunner    TxRunner
	alerts      AlertEvaluator
	publisher   ports.EventPublisher
	invalidator ReportInvalidator
	timeout     time.Duration
	log         zerolog.Logger
}

// NewProcessSaleUseCase construye el caso de uso. timeout <= 0 desactiva el límite propio
// (queda el del contexto del caller).
func NewProcessSaleUseCase(
	txRunner TxRunner,
	alerts AlertEvaluator,
	publisher ports.EventPublisher,
	invalidator ReportInvalidator,
	timeout time.Duration,
	log zerolog.Logger,
) *ProcessSaleUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &ProcessSaleUseCase{
		txRunner:    txRunner,
		alerts:      alerts,
		publisher:   publisher,
		invalidator: invalidator,
		timeout:     timeout,
		log:         log,
	}
}

// ProcessSale valida el carrito, bloquea los productos en orden de ID, verifica el stock de
// todas las líneas contra esa foto, descuenta y registra la venta. Cualquier fallo hace rollback.
// Tras el commit evalúa alertas de los productos tocados (best effort).
func (uc *ProcessSaleUseCase) ProcessSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.EmptyCartError{}
	}
	for i, l := range in.Lines {
		switch {
		case l.ProductID == "":
			return nil, &domain.InvalidLineError{Index: i, Reason: "producto requerido"}
		case l.Quantity <= 0:
			return nil, &domain.InvalidLineError{Index: i, Reason: "la cantidad debe ser un entero positivo"}
		case l.UnitPrice.IsNegative():
			return nil, &domain.InvalidLineError{Index: i, Reason: "el precio no puede ser negativo"}
		}
	}

	txCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		CashierID: in.CashierID,
		CreatedAt: now,
	}
	var touched []*entity.Product

	err := uc.txRunner.RunSale(txCtx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// 1) Bloquear filas en orden de ID para que dos ventas concurrentes no se bloqueen mutuamente
		locked, ids, err := lockProducts(txCtx, productRepo, in.Lines)
		if err != nil {
			return err
		}

		// 2) Validar todas las líneas contra la foto bloqueada antes de modificar nada
		demand := make(map[string]int, len(ids))
		for _, l := range in.Lines {
			p := locked[l.ProductID]
			if p == nil {
				return &domain.ProductNotFoundError{ProductID: l.ProductID}
			}
			available := p.Quantity - demand[l.ProductID]
			if l.Quantity > available {
				return &domain.InsufficientStockError{
					ProductID: l.ProductID, Name: p.Name, Requested: l.Quantity, Available: available,
				}
			}
			demand[l.ProductID] += l.Quantity
		}

		// 3) Descontar con compare-and-swap y armar los ítems
		items := make([]entity.SaleItem, 0, len(in.Lines))
		for _, l := range in.Lines {
			p := locked[l.ProductID]
			remaining, ok, err := productRepo.DecrementStock(txCtx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.InsufficientStockError{
					ProductID: l.ProductID, Name: p.Name, Requested: l.Quantity, Available: remaining,
				}
			}
			price := l.UnitPrice
			if price.IsZero() {
				price = p.Price
			}
			items = append(items, entity.SaleItem{
				ID:             uuid.New().String(),
				SaleID:         sale.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				Category:       p.Category,
				Quantity:       l.Quantity,
				UnitPrice:      price,
				UnitCost:       p.CostPrice,
				Subtotal:       price.Mul(decimal.NewFromInt(int64(l.Quantity))),
				RemainingStock: remaining,
			})
		}
		sale.Items = items
		sale.TotalAmount = entity.ComputeTotal(items)

		// 4) Registrar la venta (cabecera + ítems) en la misma transacción
		if err := saleRepo.Create(txCtx, sale); err != nil {
			return err
		}

		touched = touched[:0]
		for _, id := range ids {
			after := *locked[id]
			after.Quantity -= demand[id]
			after.UpdatedAt = now
			touched = append(touched, &after)
		}
		return nil
	})
	if err != nil {
		return nil, classify(txCtx, err)
	}

	uc.afterCommit(ctx, sale, touched)

	return &SaleResult{Sale: sale, Remaining: remainingByLine(sale.Items)}, nil
}

// lockProducts bloquea los productos distintos del carrito en orden ascendente de ID.
// Los productos inexistentes quedan fuera del mapa.
func lockProducts(ctx context.Context, repo repository.ProductRepository, lines []LineInput) (map[string]*entity.Product, []string, error) {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)

	locked := make(map[string]*entity.Product, len(ids))
	found := ids[:0:0]
	for _, id := range ids {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			locked[id] = p
			found = append(found, id)
		}
	}
	return locked, found, nil
}

// afterCommit efectos secundarios de una venta confirmada. Ninguno hace fallar la venta.
func (uc *ProcessSaleUseCase) afterCommit(ctx context.Context, sale *entity.Sale, touched []*entity.Product) {
	if uc.alerts != nil {
		for _, p := range touched {
			if _, _, err := uc.alerts.EvaluateProductAlerts(ctx, p); err != nil {
				uc.log.Warn().Err(err).
					Str("sale_id", sale.ID).
					Str("product_id", p.ID).
					Msg("evaluación de alertas tras la venta")
			}
		}
	}
	if err := uc.publisher.Publish(ctx, ports.EventSaleCompleted, toSaleResponse(sale)); err != nil {
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("publicar evento de venta")
	}
	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("invalidar caché de reportes")
		}
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("cashier_id", sale.CashierID).
		Int("lines", len(sale.Items)).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Msg("venta registrada")
}

// classify traduce errores de la tx a la taxonomía de dominio.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInsufficientStock):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &domain.StorageTimeoutError{Op: opProcessSale}
	default:
		return &domain.StorageError{Op: opProcessSale, Err: err}
	}
}

func remainingByLine(items []entity.SaleItem) []LineRemaining {
	out := make([]LineRemaining, 0, len(items))
	for _, it := range items {
		out = append(out, LineRemaining{
			ProductID:      it.ProductID,
			Name:           it.ProductName,
			RemainingStock: it.RemainingStock,
		})
	}
	return out
}
