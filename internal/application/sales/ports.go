package sales

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que una venta se aplica completa o no se aplica.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// AlertEvaluator re-evalúa las alertas de un producto después de un cambio de stock.
// Lo implementa *alerts.Evaluator.
type AlertEvaluator interface {
	EvaluateProductAlerts(ctx context.Context, product *entity.Product) (*entity.Alert, bool, error)
}

// ReportInvalidator invalida los reportes cacheados cuando cambian las ventas.
// Lo implementa *reports.UseCase.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}
