package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orcamentos-api/internal/application/dto"
	"github.com/jhoicas/Orcamentos-api/internal/domain"
)

// errorStatus traduce los errores de dominio a status + código de la API.
// El orden importa: ErrLineNotFound envuelve ErrInvalidInput.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrLineNotFound):
		return fiber.StatusBadRequest, "LINE_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusUnprocessableEntity, "QUOTE_INVALID"
	case errors.Is(err, domain.ErrDraftClosed):
		return fiber.StatusConflict, "DRAFT_CLOSED"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrLookup):
		return fiber.StatusBadGateway, "CATALOG_UNAVAILABLE"
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusServiceUnavailable, "SAVE_FAILED"
	case errors.Is(err, domain.ErrRemoval):
		return fiber.StatusServiceUnavailable, "DELETE_FAILED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
