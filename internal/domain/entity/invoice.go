package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura.
const (
	InvoiceTypeMonthly = "monthly"
)

// Estados de la factura.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice cabecera de una factura de un apartamento para un período de facturación.
// Total se fija una sola vez, después de crear todas sus líneas.
type Invoice struct {
	ID                 string
	Number             string
	ConjuntoConfigID   string
	ApartmentID        string
	Type               string // ver constantes InvoiceType*
	Status             string // ver constantes InvoiceStatus*
	BillingDate        time.Time
	DueDate            time.Time
	BillingPeriodYear  int
	BillingPeriodMonth int
	Total              decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InvoiceItem línea de una factura. Description y UnitPrice son copias del concepto
// en el momento de generación; editar el concepto después no altera facturas emitidas.
type InvoiceItem struct {
	ID               string
	InvoiceID        string
	PaymentConceptID string
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Total            decimal.Decimal // Quantity × UnitPrice
	PeriodStart      time.Time
	PeriodEnd        time.Time
}
