package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

var _ repository.PaymentConceptRepository = (*PaymentConceptRepo)(nil)

// PaymentConceptRepo implementación de PaymentConceptRepository (usable con pool o tx).
type PaymentConceptRepo struct {
	q Querier
}

// NewPaymentConceptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentConceptRepository(q Querier) *PaymentConceptRepo {
	return &PaymentConceptRepo{q: q}
}

// applicable_apartment_types es JSONB con IDs de tipo (números o cadenas); NULL o [] = todos los tipos.
const conceptSelect = `
	SELECT id, conjunto_config_id, name, COALESCE(description, ''), type, default_amount,
	       is_recurring, is_active, billing_cycle,
	       COALESCE(applicable_apartment_types, '[]'::jsonb), created_at, updated_at
	FROM payment_concepts`

// ListMonthlyCommonExpenses conceptos de administración activos, recurrentes y mensuales.
func (r *PaymentConceptRepo) ListMonthlyCommonExpenses(ctx context.Context, conjuntoID string) ([]*entity.PaymentConcept, error) {
	query := conceptSelect + `
	WHERE conjunto_config_id = $1
	  AND type = $2
	  AND is_active = TRUE
	  AND is_recurring = TRUE
	  AND billing_cycle = $3
	ORDER BY created_at, name`
	return r.list(ctx, query, conjuntoID, entity.ConceptTypeCommonExpense, entity.BillingCycleMonthly)
}

// ListByConjunto todos los conceptos del conjunto.
func (r *PaymentConceptRepo) ListByConjunto(ctx context.Context, conjuntoID string) ([]*entity.PaymentConcept, error) {
	return r.list(ctx, conceptSelect+` WHERE conjunto_config_id = $1 ORDER BY created_at, name`, conjuntoID)
}

func (r *PaymentConceptRepo) list(ctx context.Context, query string, args ...any) ([]*entity.PaymentConcept, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payment concepts: %w", err)
	}
	defer rows.Close()

	var list []*entity.PaymentConcept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment concept: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanConcept(row pgx.Row) (*entity.PaymentConcept, error) {
	var (
		c     entity.PaymentConcept
		types apartmentTypeIDs
	)
	err := row.Scan(
		&c.ID, &c.ConjuntoConfigID, &c.Name, &c.Description, &c.Type, &c.DefaultAmount,
		&c.IsRecurring, &c.IsActive, &c.BillingCycle,
		&types, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ApplicableApartmentTypes = types
	return &c, nil
}
