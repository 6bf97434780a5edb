package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

func TestPaymentConcept_SinTiposAplicaATodos(t *testing.T) {
	c := &entity.PaymentConcept{ApplicableApartmentTypes: nil}
	assert.True(t, c.IsApplicableToApartmentType("tipo-a"))
	assert.True(t, c.IsApplicableToApartmentType(""))

	c.ApplicableApartmentTypes = []string{}
	assert.True(t, c.IsApplicableToApartmentType("tipo-b"))
}

func TestPaymentConcept_RestringidoAUnTipo(t *testing.T) {
	c := &entity.PaymentConcept{ApplicableApartmentTypes: []string{"tipo-a"}}
	assert.True(t, c.IsApplicableToApartmentType("tipo-a"))
	assert.False(t, c.IsApplicableToApartmentType("tipo-b"))
}

func TestPaymentConcept_IsMonthlyCommonExpense(t *testing.T) {
	base := func() *entity.PaymentConcept {
		return &entity.PaymentConcept{
			Type:         entity.ConceptTypeCommonExpense,
			IsActive:     true,
			IsRecurring:  true,
			BillingCycle: entity.BillingCycleMonthly,
		}
	}
	assert.True(t, base().IsMonthlyCommonExpense())

	cases := map[string]func(c *entity.PaymentConcept){
		"parqueadero":   func(c *entity.PaymentConcept) { c.Type = entity.ConceptTypeParking },
		"inactivo":      func(c *entity.PaymentConcept) { c.IsActive = false },
		"no recurrente": func(c *entity.PaymentConcept) { c.IsRecurring = false },
		"trimestral":    func(c *entity.PaymentConcept) { c.BillingCycle = entity.BillingCycleQuarterly },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.False(t, c.IsMonthlyCommonExpense())
		})
	}
}

func TestPaymentConcept_Etiquetas(t *testing.T) {
	c := &entity.PaymentConcept{Type: entity.ConceptTypeLateFee, BillingCycle: entity.BillingCycleOneTime}
	assert.Equal(t, "Interés de mora", c.TypeLabel())
	assert.Equal(t, "Una vez", c.BillingCycleLabel())

	c = &entity.PaymentConcept{Type: "desconocido", BillingCycle: ""}
	assert.Equal(t, "Sin clasificar", c.TypeLabel())
	assert.Equal(t, "Sin definir", c.BillingCycleLabel())
}
