package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

// ConceptQueryUseCase lista los conceptos de pago del conjunto activo.
type ConceptQueryUseCase struct {
	conjuntos repository.ConjuntoConfigRepository
	concepts  repository.PaymentConceptRepository
}

func NewConceptQueryUseCase(conjuntos repository.ConjuntoConfigRepository, concepts repository.PaymentConceptRepository) *ConceptQueryUseCase {
	return &ConceptQueryUseCase{conjuntos: conjuntos, concepts: concepts}
}

// List todos los conceptos (activos o no) con etiquetas en español.
func (uc *ConceptQueryUseCase) List(ctx context.Context) ([]*dto.PaymentConceptResponse, error) {
	configs, err := uc.conjuntos.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("consultar conjunto activo: %w", err)
	}
	conjunto, err := domainbilling.ResolveActiveConjunto(configs)
	if err != nil {
		return nil, err
	}
	concepts, err := uc.concepts.ListByConjunto(ctx, conjunto.ID)
	if err != nil {
		return nil, fmt.Errorf("listar conceptos: %w", err)
	}

	out := make([]*dto.PaymentConceptResponse, 0, len(concepts))
	for _, c := range concepts {
		types := c.ApplicableApartmentTypes
		if types == nil {
			types = []string{}
		}
		out = append(out, &dto.PaymentConceptResponse{
			ID:                       c.ID,
			Name:                     c.Name,
			Description:              c.Description,
			Type:                     c.Type,
			TypeLabel:                c.TypeLabel(),
			DefaultAmount:            c.DefaultAmount,
			IsRecurring:              c.IsRecurring,
			IsActive:                 c.IsActive,
			BillingCycle:             c.BillingCycle,
			BillingCycleLabel:        c.BillingCycleLabel(),
			ApplicableApartmentTypes: types,
		})
	}
	return out, nil
}
