package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// msgInternal mensaje genérico para errores no esperados; el detalle solo va al log.
const msgInternal = "error interno del servidor"

func ok(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(dto.Envelope{Success: true, Data: data, Message: message})
}

func okPage(c *fiber.Ctx, data any, p dto.Pagination) error {
	return c.JSON(dto.Envelope{Success: true, Data: data, Pagination: &p})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Code: code, Error: msg})
}

// writeError traduce errores de dominio a status HTTP. Lo no reconocido es 500
// y se registra con el error completo.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return fail(c, fiber.StatusBadRequest, "INVALID_STATE", err.Error())
	case errors.Is(err, domain.ErrEmptyDocument):
		return fail(c, fiber.StatusBadRequest, "EMPTY_DOCUMENT", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusBadRequest, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrValidation):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("error no controlado")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", msgInternal)
}

// ErrorHandler handler de errores de Fiber (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return writeError(c, err)
		}
		return fail(c, fe.Code, "HTTP_ERROR", fe.Message)
	}
	return writeError(c, err)
}
