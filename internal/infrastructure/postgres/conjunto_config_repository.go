package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

var _ repository.ConjuntoConfigRepository = (*ConjuntoConfigRepo)(nil)

// ConjuntoConfigRepo implementación de ConjuntoConfigRepository (usable con pool o tx).
type ConjuntoConfigRepo struct {
	q Querier
}

// NewConjuntoConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConjuntoConfigRepository(q Querier) *ConjuntoConfigRepo {
	return &ConjuntoConfigRepo{q: q}
}

const conjuntoColumns = `
	id, name, COALESCE(description, ''), number_of_towers, floors_per_tower, apartments_per_floor,
	is_active, COALESCE(tower_names, '[]'::jsonb), created_at, updated_at`

func scanConjunto(row pgx.Row) (*entity.ConjuntoConfig, error) {
	var c entity.ConjuntoConfig
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.NumberOfTowers, &c.FloorsPerTower, &c.ApartmentsPerFloor,
		&c.IsActive, &c.TowerNames, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActive devuelve todas las configuraciones activas; el llamador decide si hay ambigüedad.
func (r *ConjuntoConfigRepo) ListActive(ctx context.Context) ([]*entity.ConjuntoConfig, error) {
	query := `SELECT` + conjuntoColumns + ` FROM conjunto_configs WHERE is_active = TRUE ORDER BY created_at`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active conjunto configs: %w", err)
	}
	defer rows.Close()

	var list []*entity.ConjuntoConfig
	for rows.Next() {
		c, err := scanConjunto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conjunto config: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID obtiene una configuración por ID; nil si no existe.
func (r *ConjuntoConfigRepo) GetByID(ctx context.Context, id string) (*entity.ConjuntoConfig, error) {
	query := `SELECT` + conjuntoColumns + ` FROM conjunto_configs WHERE id = $1`
	c, err := scanConjunto(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conjunto config: %w", err)
	}
	return c, nil
}
