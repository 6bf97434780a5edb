package repository

import (
	"context"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

// ApartmentRepository define el puerto de persistencia para Apartment.
type ApartmentRepository interface {
	// ListByConjuntoAndStatus apartamentos del conjunto con alguno de los estados dados,
	// ordenados por torre y número. Incluye el nombre del tipo de apartamento. Sin estados = todos.
	ListByConjuntoAndStatus(ctx context.Context, conjuntoID string, statuses []string) ([]*entity.Apartment, error)
	GetByID(ctx context.Context, id string) (*entity.Apartment, error)
}
