// Package alerts contiene la evaluación de alertas de producto y su gestión (leer, resolver, barrer).
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// Evaluator decide si el estado actual de un producto amerita una alerta nueva.
// Es idempotente: una condición sin cambios no genera duplicados.
type Evaluator struct {
	repo      repository.AlertRepository
	policy    alerting.Policy
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewEvaluator construye el evaluador.
func NewEvaluator(repo repository.AlertRepository, policy alerting.Policy, publisher ports.EventPublisher, log zerolog.Logger) *Evaluator {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &Evaluator{repo: repo, policy: policy, publisher: publisher, log: log}
}

// Policy devuelve la política de alertas en uso.
func (e *Evaluator) Policy() alerting.Policy {
	return e.policy
}

// EvaluateProductAlerts aplica la cadena de prioridad (Expired > Out of Stock > Low Stock > Expiring Soon)
// y crea como máximo una alerta. Si ya hay una abierta con el mismo (kind, message) la devuelve con created=false.
// Nunca modifica ni borra alertas existentes.
func (e *Evaluator) EvaluateProductAlerts(ctx context.Context, product *entity.Product) (*entity.Alert, bool, error) {
	if product == nil {
		return nil, false, nil
	}
	now := time.Now()
	cond, ok := e.policy.Evaluate(product, now)
	if !ok {
		return nil, false, nil
	}

	existing, err := e.repo.FindOpen(ctx, cond.Kind, cond.Message)
	if err != nil {
		return nil, false, fmt.Errorf("buscar alerta abierta: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	alert := &entity.Alert{
		ID:        uuid.New().String(),
		Kind:      cond.Kind,
		Message:   cond.Message,
		ProductID: cond.ProductID,
		Status:    entity.AlertStatusUnread,
		CreatedAt: now,
	}
	created, err := e.repo.Create(ctx, alert)
	if err != nil {
		return nil, false, fmt.Errorf("crear alerta: %w", err)
	}
	if !created {
		// Otra evaluación concurrente la insertó primero
		existing, err := e.repo.FindOpen(ctx, cond.Kind, cond.Message)
		if err != nil {
			return nil, false, fmt.Errorf("buscar alerta abierta: %w", err)
		}
		return existing, false, nil
	}

	if err := e.publisher.Publish(ctx, ports.EventAlertRaised, toAlertResponse(alert)); err != nil {
		e.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("publicar evento de alerta")
	}
	e.log.Info().
		Str("alert_id", alert.ID).
		Str("kind", alert.Kind).
		Str("product_id", alert.ProductID).
		Msg("alerta creada")
	return alert, true, nil
}
