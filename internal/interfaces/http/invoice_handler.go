package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
)

// MonthlyInvoiceGenerator caso de uso de generación mensual.
type MonthlyInvoiceGenerator interface {
	Generate(ctx context.Context, in dto.GenerateMonthlyRequest) (*dto.GenerationSummary, error)
}

// InvoiceQuerier consultas de facturas generadas.
type InvoiceQuerier interface {
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListMonthly(ctx context.Context, year, month int) ([]*dto.InvoiceResponse, error)
}

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	generator MonthlyInvoiceGenerator
	queries   InvoiceQuerier
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(generator MonthlyInvoiceGenerator, queries InvoiceQuerier) *InvoiceHandler {
	return &InvoiceHandler{generator: generator, queries: queries}
}

// GenerateMonthly genera las facturas mensuales del período (mes actual si no se indica).
// POST /api/invoices/monthly
func (h *InvoiceHandler) GenerateMonthly(c *fiber.Ctx) error {
	var in dto.GenerateMonthlyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	summary, err := h.generator.Generate(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// List facturas mensuales del conjunto activo para el período.
// GET /api/invoices?year=2025&month=3
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.ListMonthlyInvoicesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	list, err := h.queries.ListMonthly(c.Context(), in.Year, in.Month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list, "total": len(list)})
}

// GetByID factura con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	invoice, err := h.queries.GetInvoice(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}
