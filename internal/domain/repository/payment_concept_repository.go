package repository

import (
	"context"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

// PaymentConceptRepository define el puerto de persistencia para PaymentConcept.
type PaymentConceptRepository interface {
	// ListMonthlyCommonExpenses conceptos de administración activos, recurrentes y mensuales.
	ListMonthlyCommonExpenses(ctx context.Context, conjuntoID string) ([]*entity.PaymentConcept, error)
	ListByConjunto(ctx context.Context, conjuntoID string) ([]*entity.PaymentConcept, error)
}
