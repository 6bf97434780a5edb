package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Generator MonthlyInvoiceGenerator
	Invoices  InvoiceQuerier
	Concepts  ConceptLister
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Generator, deps.Invoices)
	invoices.Post("/monthly", invoiceHandler.GenerateMonthly)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)

	concepts := api.Group("/payment-concepts")
	conceptHandler := NewConceptHandler(deps.Concepts)
	concepts.Get("/", conceptHandler.List)
}
