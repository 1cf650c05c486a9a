package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posadmin-api/internal/application/dto"
	"github.com/jhoicas/posadmin-api/internal/domain"
)

// writeError traduce errores de dominio a HTTP con cuerpo dto.ErrorResponse.
// Los errores no mapeados son 500 sin exponer el detalle interno.
func writeError(c *fiber.Ctx, err error) error {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Status: fiber.StatusBadRequest, Details: verr.Fields,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return writeErrorCode(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return writeErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return writeErrorCode(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return writeErrorCode(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrDiscountExceedsSubtotal):
		return writeErrorCode(c, fiber.StatusUnprocessableEntity, "DISCOUNT_EXCEEDS_SUBTOTAL", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return writeErrorCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return writeErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		return writeErrorCode(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
	}
}

func writeErrorCode(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg, Status: status})
}

// ErrorHandler para fiber.Config: errores de Fiber (404 de ruta, body gigante) y errores de handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return writeErrorCode(c, fe.Code, "HTTP_ERROR", fe.Message)
	}
	return writeError(c, err)
}
