package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/reports"
)

// ReportHandler reportes de solo lectura (solo admin).
type ReportHandler struct {
	uc            *reports.UseCase
	replenishment *reports.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase, replenishment *reports.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{uc: uc, replenishment: replenishment}
}

// MonthlyProfit godoc
// @Summary      Utilidad mensual del año
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (por defecto el actual)"
// @Success      200   {object}  dto.MonthlyProfitReport
// @Router       /api/reports/monthly-profit [get]
func (h *ReportHandler) MonthlyProfit(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	if year < 2000 || year > 9999 {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "year fuera de rango")
	}
	out, err := h.uc.MonthlyProfit(c.UserContext(), year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD), por defecto inicio de mes"
// @Param        to     query  string  false  "Hasta inclusive (YYYY-MM-DD), por defecto hoy"
// @Param        limit  query  int     false  "Máximo de filas"  default(10)
// @Success      200    {array}  dto.RankingDTO
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.TopProducts(c.UserContext(), from, to, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopCategories godoc
// @Summary      Categorías con más ingresos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit  query  int     false  "Máximo de filas"  default(10)
// @Success      200    {array}  dto.RankingDTO
// @Router       /api/reports/top-categories [get]
func (h *ReportHandler) TopCategories(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.TopCategories(c.UserContext(), from, to, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopCashiers godoc
// @Summary      Cajeros con más ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit  query  int     false  "Máximo de filas"  default(10)
// @Success      200    {array}  dto.RankingDTO
// @Router       /api/reports/top-cashiers [get]
func (h *ReportHandler) TopCashiers(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.TopCashiers(c.UserContext(), from, to, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DailySummary godoc
// @Summary      Resumen del día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día (YYYY-MM-DD), por defecto hoy"
// @Success      200   {object}  dto.SummaryDTO
// @Router       /api/reports/daily-summary [get]
func (h *ReportHandler) DailySummary(c *fiber.Ctx) error {
	date, ok, err := dateQuery(c, "date")
	if err != nil {
		return badQuery(c, err)
	}
	if !ok {
		date = time.Now()
	}
	out, err := h.uc.DailySummary(c.UserContext(), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen del día y del mes en curso
// @Description  Ventas y utilidad de hoy y del mes, top 5 productos del mes, alertas sin leer
// @Description  y productos con stock bajo. Las fechas se calculan en el servidor.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su umbral de stock con la cantidad sugerida de pedido,
// @Description  ordenados por margen de los últimos 90 días.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.Suggestions(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
