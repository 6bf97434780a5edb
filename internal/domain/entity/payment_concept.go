package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de concepto de pago.
const (
	ConceptTypeCommonExpense = "common_expense"
	ConceptTypeSanction      = "sanction"
	ConceptTypeParking       = "parking"
	ConceptTypeSpecial       = "special"
	ConceptTypeLateFee       = "late_fee"
	ConceptTypeOther         = "other"
)

// Ciclos de facturación.
const (
	BillingCycleMonthly   = "monthly"
	BillingCycleQuarterly = "quarterly"
	BillingCycleAnnually  = "annually"
	BillingCycleOneTime   = "one_time"
)

// PaymentConcept concepto cobrable del conjunto (administración, parqueadero, sanciones...).
type PaymentConcept struct {
	ID               string
	ConjuntoConfigID string
	Name             string
	Description      string
	Type             string          // ver constantes ConceptType*
	DefaultAmount    decimal.Decimal // NUMERIC(12,2)
	IsRecurring      bool
	IsActive         bool
	BillingCycle     string // ver constantes BillingCycle*
	// ApplicableApartmentTypes IDs de tipos de apartamento; vacío = aplica a todos.
	ApplicableApartmentTypes []string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// IsApplicableToApartmentType indica si el concepto se cobra al tipo de apartamento dado.
func (c *PaymentConcept) IsApplicableToApartmentType(apartmentTypeID string) bool {
	if len(c.ApplicableApartmentTypes) == 0 {
		return true
	}
	return slices.Contains(c.ApplicableApartmentTypes, apartmentTypeID)
}

// IsMonthlyCommonExpense indica si el concepto entra en la facturación mensual automática.
func (c *PaymentConcept) IsMonthlyCommonExpense() bool {
	return c.Type == ConceptTypeCommonExpense &&
		c.IsActive &&
		c.IsRecurring &&
		c.BillingCycle == BillingCycleMonthly
}

// TypeLabel etiqueta en español del tipo de concepto.
func (c *PaymentConcept) TypeLabel() string {
	switch c.Type {
	case ConceptTypeCommonExpense:
		return "Administración"
	case ConceptTypeSanction:
		return "Sanción"
	case ConceptTypeParking:
		return "Parqueadero"
	case ConceptTypeSpecial:
		return "Especial"
	case ConceptTypeLateFee:
		return "Interés de mora"
	case ConceptTypeOther:
		return "Otro"
	default:
		return "Sin clasificar"
	}
}

// BillingCycleLabel etiqueta en español del ciclo de facturación.
func (c *PaymentConcept) BillingCycleLabel() string {
	switch c.BillingCycle {
	case BillingCycleMonthly:
		return "Mensual"
	case BillingCycleQuarterly:
		return "Trimestral"
	case BillingCycleAnnually:
		return "Anual"
	case BillingCycleOneTime:
		return "Una vez"
	default:
		return "Sin definir"
	}
}
