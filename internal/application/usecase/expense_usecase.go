package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// ReportInvalidator invalida reportes cacheados (lo implementa *reports.UseCase).
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ExpenseUseCase registro de gastos operativos. Cada cambio invalida la caché de reportes.
type ExpenseUseCase struct {
	repo        repository.ExpenseRepository
	invalidator ReportInvalidator
	log         zerolog.Logger
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, invalidator ReportInvalidator, log zerolog.Logger) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, invalidator: invalidator, log: log}
}

// Create registra un gasto. El monto debe ser positivo; sin fecha se usa hoy.
func (uc *ExpenseUseCase) Create(ctx context.Context, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if strings.TrimSpace(in.Description) == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	e := &entity.Expense{
		ID:          uuid.New().String(),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Amount:      in.Amount.Round(2),
		Date:        date,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toExpenseResponse(e), nil
}

func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// List lista gastos en el rango [from, to] (extremos opcionales), más recientes primero.
func (uc *ExpenseUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]dto.ExpenseResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toExpenseResponse(e))
	}
	return out, nil
}

func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ExpenseUseCase) invalidate(ctx context.Context) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar caché de reportes")
	}
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		Date:        e.Date,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
