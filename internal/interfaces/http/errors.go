package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Los errores de almacenamiento y
// los no clasificados se registran y responden con un mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		return fail(c, fiber.StatusBadRequest, "EMPTY_CART", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrStorageTimeout):
		loggerFrom(c).Error().Err(err).Msg("timeout de almacenamiento")
		return fail(c, fiber.StatusGatewayTimeout, "TIMEOUT", "la operación tardó demasiado, intente de nuevo")
	default:
		loggerFrom(c).Error().Err(err).Msg("error interno")
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor")
	}
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
}

func notFound(c *fiber.Ctx, what string) error {
	return fail(c, fiber.StatusNotFound, "NOT_FOUND", what+" no encontrado")
}

// pageFromQuery lee limit/offset de la query string.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	p.Normalize()
	return p
}

// dateQuery lee un parámetro YYYY-MM-DD. ok=false si viene vacío.
func dateQuery(c *fiber.Ctx, key string) (t time.Time, ok bool, err error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// rangeQuery lee from/to (YYYY-MM-DD, to inclusivo). Sin from se usa el inicio del mes en curso;
// sin to, el final del día de hoy.
func rangeQuery(c *fiber.Ctx) (from, to time.Time, err error) {
	now := time.Now()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if f, ok, err := dateQuery(c, "from"); err != nil {
		return from, to, err
	} else if ok {
		from = f
	}
	if t, ok, err := dateQuery(c, "to"); err != nil {
		return from, to, err
	} else if ok {
		to = t
	}
	to = to.Add(24*time.Hour - time.Nanosecond)
	if to.Before(from) {
		return from, to, errors.New("to es anterior a from")
	}
	return from, to, nil
}

func badQuery(c *fiber.Ctx, err error) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", err.Error())
}
