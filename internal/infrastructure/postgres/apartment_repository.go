package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

var _ repository.ApartmentRepository = (*ApartmentRepo)(nil)

// ApartmentRepo implementación de ApartmentRepository (usable con pool o tx).
type ApartmentRepo struct {
	q Querier
}

// NewApartmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApartmentRepository(q Querier) *ApartmentRepo {
	return &ApartmentRepo{q: q}
}

const apartmentSelect = `
	SELECT a.id, a.conjunto_config_id, COALESCE(a.apartment_type_id::text, ''), COALESCE(t.name, ''),
	       a.number, COALESCE(a.tower, ''), COALESCE(a.floor, 0), a.status, a.created_at, a.updated_at
	FROM apartments a
	LEFT JOIN apartment_types t ON t.id = a.apartment_type_id`

func scanApartment(row pgx.Row) (*entity.Apartment, error) {
	var a entity.Apartment
	err := row.Scan(
		&a.ID, &a.ConjuntoConfigID, &a.ApartmentTypeID, &a.ApartmentTypeName,
		&a.Number, &a.Tower, &a.Floor, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByConjuntoAndStatus apartamentos del conjunto filtrados por estado (sin estados = todos).
func (r *ApartmentRepo) ListByConjuntoAndStatus(ctx context.Context, conjuntoID string, statuses []string) ([]*entity.Apartment, error) {
	query := apartmentSelect + ` WHERE a.conjunto_config_id = $1`
	args := []any{conjuntoID}
	if len(statuses) > 0 {
		query += ` AND a.status = ANY($2)`
		args = append(args, statuses)
	}
	query += ` ORDER BY a.tower, a.number`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Apartment
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetByID obtiene un apartamento por ID; nil si no existe.
func (r *ApartmentRepo) GetByID(ctx context.Context, id string) (*entity.Apartment, error) {
	a, err := scanApartment(r.q.QueryRow(ctx, apartmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get apartment: %w", err)
	}
	return a, nil
}
