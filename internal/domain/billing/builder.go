// Package billing contiene las reglas de dominio de la facturación mensual del conjunto:
// validación del período, resolución del conjunto activo, aplicabilidad de conceptos,
// materialización de facturas y cálculo de totales.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

// ErrInvalidTotals la factura no cuadra con sus líneas.
var ErrInvalidTotals = errors.New("totales de factura inconsistentes")

// MonthlyConcepts filtra los conceptos que entran en la facturación mensual automática.
func MonthlyConcepts(concepts []*entity.PaymentConcept) []*entity.PaymentConcept {
	out := make([]*entity.PaymentConcept, 0, len(concepts))
	for _, c := range concepts {
		if c.IsMonthlyCommonExpense() {
			out = append(out, c)
		}
	}
	return out
}

// BillableApartments filtra los apartamentos ocupados o disponibles.
func BillableApartments(apartments []*entity.Apartment) []*entity.Apartment {
	out := make([]*entity.Apartment, 0, len(apartments))
	for _, a := range apartments {
		if a.IsBillable() {
			out = append(out, a)
		}
	}
	return out
}

// ApplicableConcepts conceptos que aplican al tipo de apartamento, en el orden recibido.
func ApplicableConcepts(concepts []*entity.PaymentConcept, apartmentTypeID string) []*entity.PaymentConcept {
	var out []*entity.PaymentConcept
	for _, c := range concepts {
		if c.IsApplicableToApartmentType(apartmentTypeID) {
			out = append(out, c)
		}
	}
	return out
}

// InvoiceNumber número de factura mensual: "<YYYYMM>-<número de apartamento>".
// No depende del orden de procesamiento. Es único solo dentro de un conjunto: la
// unicidad en base de datos va sobre (conjunto_config_id, invoice_number).
func InvoiceNumber(period Period, apartment *entity.Apartment) string {
	return fmt.Sprintf("%04d%02d-%s", period.Year, period.Month, apartment.Number)
}

// NewMonthlyInvoice cabecera de la factura mensual (total en cero hasta recalcular).
func NewMonthlyInvoice(conjuntoID string, apartment *entity.Apartment, period Period, billingDate, dueDate time.Time) *entity.Invoice {
	return &entity.Invoice{
		Number:             InvoiceNumber(period, apartment),
		ConjuntoConfigID:   conjuntoID,
		ApartmentID:        apartment.ID,
		Type:               entity.InvoiceTypeMonthly,
		Status:             entity.InvoiceStatusPending,
		BillingDate:        billingDate,
		DueDate:            dueDate,
		BillingPeriodYear:  period.Year,
		BillingPeriodMonth: period.Month,
		Total:              decimal.Zero,
		CreatedAt:          billingDate,
		UpdatedAt:          billingDate,
	}
}

// NewInvoiceItem línea con copia del nombre y valor del concepto al momento de generar.
func NewInvoiceItem(invoiceID string, concept *entity.PaymentConcept, period Period) *entity.InvoiceItem {
	qty := decimal.NewFromInt(1)
	price := concept.DefaultAmount.Round(2)
	return &entity.InvoiceItem{
		InvoiceID:        invoiceID,
		PaymentConceptID: concept.ID,
		Description:      concept.Name,
		Quantity:         qty,
		UnitPrice:        price,
		Total:            qty.Mul(price).Round(2),
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
	}
}

// ItemsTotal Σ Quantity × UnitPrice, redondeado a 2 decimales.
func ItemsTotal(items []*entity.InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total.Round(2)
}

// ValidateInvoiceTotals comprueba que la factura tenga líneas y que su total
// coincida con la suma de ellas.
func ValidateInvoiceTotals(invoice *entity.Invoice, items []*entity.InvoiceItem) error {
	if invoice == nil {
		return fmt.Errorf("%w: factura nula", ErrInvalidTotals)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: la factura %s no tiene líneas", ErrInvalidTotals, invoice.Number)
	}
	expected := ItemsTotal(items)
	if !invoice.Total.Equal(expected) {
		return fmt.Errorf("%w: total %s no coincide con la suma de líneas %s",
			ErrInvalidTotals, invoice.Total.StringFixed(2), expected.StringFixed(2))
	}
	return nil
}
