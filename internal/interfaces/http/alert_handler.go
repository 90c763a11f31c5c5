package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/alerts"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// AlertHandler consulta y ciclo de vida de las alertas de producto.
type AlertHandler struct {
	uc *alerts.UseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "unread | read | resolved"
// @Param        kind    query  string  false  "Expired | Out of Stock | Low Stock | Expiring Soon"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.AlertResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", entity.AlertStatusUnread, entity.AlertStatusRead, entity.AlertStatusResolved:
	default:
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "status debe ser unread, read o resolved")
	}
	page := pageFromQuery(c)
	out, err := h.uc.List(c.UserContext(), repository.AlertFilter{
		Status: status,
		Kind:   c.Query("kind"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Count godoc
// @Summary      Contador de alertas sin leer
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertCountResponse
// @Router       /api/alerts/count [get]
func (h *AlertHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.CountUnread(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AlertCountResponse{Unread: n})
}

// Live godoc
// @Summary      Condiciones de alerta vigentes (sin persistir)
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LiveAlertResponse
// @Router       /api/alerts/live [get]
func (h *AlertHandler) Live(c *fiber.Ctx) error {
	out, err := h.uc.Scan(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/read [patch]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas las alertas como leídas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/read-all [patch]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.uc.MarkAllRead(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// Resolve godoc
// @Summary      Resolver alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [patch]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	if err := h.uc.Resolve(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sweep godoc
// @Summary      Resolver alertas cuya condición ya no se cumple
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/sweep [post]
func (h *AlertHandler) Sweep(c *fiber.Ctx) error {
	n, err := h.uc.Sweep(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"resolved": n})
}

// Evaluate godoc
// @Summary      Evaluar alertas de todo el catálogo
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	n, err := h.uc.EvaluateAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"created": n})
}
