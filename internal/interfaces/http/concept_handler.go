package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
)

// ConceptLister lista conceptos de pago.
type ConceptLister interface {
	List(ctx context.Context) ([]*dto.PaymentConceptResponse, error)
}

// ConceptHandler conceptos de pago del conjunto activo.
type ConceptHandler struct {
	uc ConceptLister
}

func NewConceptHandler(uc ConceptLister) *ConceptHandler {
	return &ConceptHandler{uc: uc}
}

// List GET /api/payment-concepts
func (h *ConceptHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list, "total": len(list)})
}
