package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	"github.com/jhoicas/conjunto-api/internal/domain"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
)

// writeError traduce errores de dominio a {code, message} con su status.
func writeError(c *fiber.Ctx, err error) error {
	var genErr *domainbilling.GenerationError
	if errors.As(err, &genErr) {
		return c.Status(genErr.StatusCode).JSON(dto.ErrorResponse{Code: errorCode(genErr.Kind), Message: genErr.Message})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func errorCode(kind domainbilling.ErrorKind) string {
	switch kind {
	case domainbilling.KindValidation:
		return "VALIDATION"
	case domainbilling.KindConflict:
		return "CONFLICT"
	default:
		return "PRECONDITION"
	}
}
