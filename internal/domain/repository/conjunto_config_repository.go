package repository

import (
	"context"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

// ConjuntoConfigRepository define el puerto de persistencia para ConjuntoConfig.
type ConjuntoConfigRepository interface {
	// ListActive devuelve todas las configuraciones marcadas como activas (se espera una).
	ListActive(ctx context.Context) ([]*entity.ConjuntoConfig, error)
	GetByID(ctx context.Context, id string) (*entity.ConjuntoConfig, error)
}
