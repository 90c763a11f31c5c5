package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// SaleHandler checkout y consulta del historial de ventas.
type SaleHandler struct {
	checkout *sales.ProcessSaleUseCase
	history  *sales.HistoryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(checkout *sales.ProcessSaleUseCase, history *sales.HistoryUseCase) *SaleHandler {
	return &SaleHandler{checkout: checkout, history: history}
}

// Create godoc
// @Summary      Registrar venta (checkout)
// @Description  Descuenta el stock de todas las líneas y registra la venta en una sola transacción.
// @Description  Si alguna línea falla no se modifica nada. price en 0 usa el precio del catálogo.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "products: [{product, name, price, quantity}]"
// @Success      201   {object}  dto.CreateSaleResponse
// @Failure      400   {object}  dto.ErrorResponse  "EMPTY_CART, VALIDATION, PRODUCT_NOT_FOUND, INSUFFICIENT_STOCK"
// @Failure      500   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.checkout.ProcessSale(c.UserContext(), sales.FromRequest(GetUserID(c), in))
	if err != nil {
		var nf *domain.ProductNotFoundError
		if errors.As(err, &nf) {
			return fail(c, fiber.StatusBadRequest, "PRODUCT_NOT_FOUND", nf.Error())
		}
		return respondError(c, err)
	}
	loggerFrom(c).Info().
		Str("sale_id", res.Sale.ID).
		Str("total", res.Sale.TotalAmount.StringFixed(2)).
		Int("lines", len(res.Sale.Items)).
		Msg("venta registrada")
	return c.Status(fiber.StatusCreated).JSON(sales.ToCreateSaleResponse(res))
}

// List godoc
// @Summary      Historial de ventas
// @Description  Un cajero solo ve sus propias ventas.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        cashier_id  query  string  false  "Cajero (solo admin)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	filter := repository.SaleFilter{Limit: page.Limit, Offset: page.Offset, CashierID: c.Query("cashier_id")}
	if GetRole(c) == entity.RoleCashier {
		filter.CashierID = GetUserID(c)
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, err := rangeQuery(c)
		if err != nil {
			return badQuery(c, err)
		}
		filter.From, filter.To = &from, &to
	}
	out, err := h.history.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.history.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil || (GetRole(c) == entity.RoleCashier && out.CashierID != GetUserID(c)) {
		return notFound(c, "venta")
	}
	return c.JSON(out)
}
