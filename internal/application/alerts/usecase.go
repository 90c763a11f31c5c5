package alerts

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// UseCase gestión de alertas: listado, lectura, resolución y barrido de alertas obsoletas.
type UseCase struct {
	repo      repository.AlertRepository
	products  repository.ProductRepository
	evaluator *Evaluator
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.AlertRepository, products repository.ProductRepository, evaluator *Evaluator, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, products: products, evaluator: evaluator, log: log}
}

// List lista alertas persistidas (más recientes primero).
func (uc *UseCase) List(ctx context.Context, filter repository.AlertFilter) ([]dto.AlertResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAlertResponse(a))
	}
	return out, nil
}

// CountUnread cuenta las alertas sin leer.
func (uc *UseCase) CountUnread(ctx context.Context) (int, error) {
	return uc.repo.CountByStatus(ctx, entity.AlertStatusUnread)
}

// MarkRead pasa una alerta de unread a read. Sobre read/resolved no hace nada.
func (uc *UseCase) MarkRead(ctx context.Context, id string) error {
	alert, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	if alert.Status != entity.AlertStatusUnread {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, id, entity.AlertStatusRead, nil)
}

// MarkAllRead marca todas las alertas sin leer como leídas.
func (uc *UseCase) MarkAllRead(ctx context.Context) (int, error) {
	return uc.repo.MarkAllRead(ctx)
}

// Resolve cierra una alerta. Resolver una ya resuelta no hace nada.
func (uc *UseCase) Resolve(ctx context.Context, id string) error {
	alert, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	if !alert.IsOpen() {
		return nil
	}
	now := time.Now()
	return uc.repo.UpdateStatus(ctx, id, entity.AlertStatusResolved, &now)
}

// Sweep resuelve las alertas abiertas cuya condición ya no se cumple
// (producto repuesto, vencimiento corregido, producto eliminado). Devuelve cuántas resolvió.
func (uc *UseCase) Sweep(ctx context.Context) (int, error) {
	open, err := uc.repo.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	byProduct := make(map[string][]*entity.Alert)
	for _, a := range open {
		byProduct[a.ProductID] = append(byProduct[a.ProductID], a)
	}

	now := time.Now()
	policy := uc.evaluator.Policy()
	resolved := 0
	for productID, alerts := range byProduct {
		product, err := uc.products.GetByID(ctx, productID)
		if err != nil {
			return resolved, err
		}
		current := make(map[string]struct{})
		if product != nil {
			for _, c := range policy.Conditions(product, now) {
				current[c.Kind+"|"+c.Message] = struct{}{}
			}
		}
		for _, a := range alerts {
			if _, still := current[a.Kind+"|"+a.Message]; still {
				continue
			}
			if err := uc.repo.UpdateStatus(ctx, a.ID, entity.AlertStatusResolved, &now); err != nil {
				return resolved, err
			}
			resolved++
		}
	}
	if resolved > 0 {
		uc.log.Info().Int("resolved", resolved).Msg("barrido de alertas")
	}
	return resolved, nil
}

// Scan deriva en vivo todas las condiciones vigentes del catálogo, sin persistir nada.
func (uc *UseCase) Scan(ctx context.Context) ([]dto.LiveAlertResponse, error) {
	products, err := uc.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	policy := uc.evaluator.Policy()
	out := make([]dto.LiveAlertResponse, 0)
	for _, p := range products {
		for _, c := range policy.Conditions(p, now) {
			out = append(out, dto.LiveAlertResponse{Kind: c.Kind, Message: c.Message, ProductID: c.ProductID})
		}
	}
	return out, nil
}

// EvaluateAll evalúa todo el catálogo y devuelve cuántas alertas nuevas se crearon.
func (uc *UseCase) EvaluateAll(ctx context.Context) (int, error) {
	products, err := uc.products.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, p := range products {
		_, isNew, err := uc.evaluator.EvaluateProductAlerts(ctx, p)
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	return created, nil
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:         a.ID,
		Kind:       a.Kind,
		Message:    a.Message,
		ProductID:  a.ProductID,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		ResolvedAt: a.ResolvedAt,
	}
}
