package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateMonthlyRequest parámetros de la generación mensual. Year/Month ausentes (nil)
// equivalen al mes actual; un valor presente siempre se valida, incluido el cero.
type GenerateMonthlyRequest struct {
	Year  *int `json:"year,omitempty" validate:"omitempty,gte=1000,lte=9999"`
	Month *int `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
	Force bool `json:"force,omitempty"`
}

// ForPeriod solicitud con año y mes explícitos.
func ForPeriod(year, month int, force bool) GenerateMonthlyRequest {
	return GenerateMonthlyRequest{Year: &year, Month: &month, Force: force}
}

// ApartmentFailure apartamento cuya factura no se pudo generar.
type ApartmentFailure struct {
	ApartmentID     string `json:"apartment_id"`
	ApartmentNumber string `json:"apartment_number"`
	Message         string `json:"message"`
}

// GenerationSummary resumen de una corrida de facturación mensual.
type GenerationSummary struct {
	ConjuntoID        string             `json:"conjunto_id"`
	ConjuntoName      string             `json:"conjunto_name"`
	Year              int                `json:"year"`
	Month             int                `json:"month"`
	PeriodKey         string             `json:"period_key"`   // "2025-03"
	PeriodLabel       string             `json:"period_label"` // "marzo 2025"
	PeriodStart       time.Time          `json:"period_start"`
	PeriodEnd         time.Time          `json:"period_end"`
	BillingDate       time.Time          `json:"billing_date"`
	DueDate           time.Time          `json:"due_date"`
	TxPolicy          string             `json:"tx_policy"`
	Force             bool               `json:"force"`
	Deleted           int64              `json:"deleted"`
	Generated         int                `json:"generated"`
	Skipped           int                `json:"skipped"`
	Errored           int                `json:"errored"`
	TotalBilled       decimal.Decimal    `json:"total_billed"`
	SkippedApartments []string           `json:"skipped_apartments,omitempty"`
	Failures          []ApartmentFailure `json:"failures,omitempty"`
	InvoiceIDs        []string           `json:"invoice_ids,omitempty"`
}

// ListMonthlyInvoicesRequest query de GET /api/invoices.
type ListMonthlyInvoicesRequest struct {
	Year  int `query:"year" validate:"required,gte=1000,lte=9999"`
	Month int `query:"month" validate:"required,gte=1,lte=12"`
}

// InvoiceResponse factura con sus líneas.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	Number             string                `json:"number"`
	ConjuntoConfigID   string                `json:"conjunto_config_id"`
	ApartmentID        string                `json:"apartment_id"`
	ApartmentNumber    string                `json:"apartment_number,omitempty"`
	ApartmentAddress   string                `json:"apartment_address,omitempty"`
	Type               string                `json:"type"`
	Status             string                `json:"status"`
	BillingDate        string                `json:"billing_date"`
	DueDate            string                `json:"due_date"`
	BillingPeriodYear  int                   `json:"billing_period_year"`
	BillingPeriodMonth int                   `json:"billing_period_month"`
	Total              decimal.Decimal       `json:"total"`
	Items              []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	ID               string          `json:"id"`
	PaymentConceptID string          `json:"payment_concept_id"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Total            decimal.Decimal `json:"total"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
}

// PaymentConceptResponse concepto de pago con etiquetas en español.
type PaymentConceptResponse struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Description              string          `json:"description,omitempty"`
	Type                     string          `json:"type"`
	TypeLabel                string          `json:"type_label"`
	DefaultAmount            decimal.Decimal `json:"default_amount"`
	IsRecurring              bool            `json:"is_recurring"`
	IsActive                 bool            `json:"is_active"`
	BillingCycle             string          `json:"billing_cycle"`
	BillingCycleLabel        string          `json:"billing_cycle_label"`
	ApplicableApartmentTypes []string        `json:"applicable_apartment_types"`
}
