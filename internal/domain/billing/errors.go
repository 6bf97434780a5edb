package billing

import (
	"fmt"
	"net/http"

	"github.com/jhoicas/conjunto-api/internal/domain"
)

// ErrorKind clasifica los errores de generación que se reportan al usuario.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindPrecondition ErrorKind = "precondition"
	KindConflict     ErrorKind = "conflict"
)

// GenerationError error de dominio de la generación de facturas: mensaje para el usuario
// (en español) y código HTTP reutilizable por capas superiores.
type GenerationError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Count      int // facturas existentes (solo DuplicatePeriod) o configuraciones activas
	Year       int
	Month      int
}

func (e *GenerationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrConflict) y similares.
func (e *GenerationError) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return domain.ErrInvalidInput
	case KindConflict:
		return domain.ErrConflict
	default:
		return domain.ErrPrecondition
	}
}

// InvalidYear el año está fuera del rango permitido por la política.
func InvalidYear(minYear, maxYear int) *GenerationError {
	return &GenerationError{
		Kind:       KindValidation,
		Message:    fmt.Sprintf("El año debe estar entre %d y %d.", minYear, maxYear),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// InvalidMonth el mes no está entre 1 y 12.
func InvalidMonth() *GenerationError {
	return &GenerationError{
		Kind:       KindValidation,
		Message:    "El mes debe estar entre 1 y 12.",
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NoActiveConjunto no existe configuración de conjunto activa.
func NoActiveConjunto() *GenerationError {
	return &GenerationError{
		Kind:       KindPrecondition,
		Message:    "No se encontró una configuración de conjunto activa.",
		StatusCode: http.StatusNotFound,
	}
}

// AmbiguousConjunto hay más de una configuración activa.
func AmbiguousConjunto(count int) *GenerationError {
	return &GenerationError{
		Kind:       KindConflict,
		Message:    fmt.Sprintf("Existen %d configuraciones de conjunto activas; solo se permite una.", count),
		StatusCode: http.StatusConflict,
		Count:      count,
	}
}

// NoOccupiedApartments no hay apartamentos ocupados o disponibles.
func NoOccupiedApartments() *GenerationError {
	return &GenerationError{
		Kind:       KindPrecondition,
		Message:    "No hay apartamentos ocupados o disponibles para facturar.",
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NoPaymentConcepts no hay conceptos mensuales recurrentes de administración activos.
func NoPaymentConcepts() *GenerationError {
	return &GenerationError{
		Kind:       KindPrecondition,
		Message:    "No hay conceptos de pago recurrentes mensuales activos.",
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// DuplicatePeriod ya existen facturas mensuales para el período y no se pidió forzar.
func DuplicatePeriod(year, month, count int) *GenerationError {
	return &GenerationError{
		Kind: KindConflict,
		Message: fmt.Sprintf("Ya existen %d facturas para el período %04d-%02d. Use la opción de forzar para regenerarlas.",
			count, year, month),
		StatusCode: http.StatusConflict,
		Count:      count,
		Year:       year,
		Month:      month,
	}
}
