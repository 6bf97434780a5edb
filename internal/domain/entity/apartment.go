package entity

import "time"

// Estados de ocupación de un apartamento.
const (
	ApartmentStatusOccupied    = "Occupied"
	ApartmentStatusAvailable   = "Available"
	ApartmentStatusUnavailable = "Unavailable"
	ApartmentStatusMaintenance = "Maintenance"
)

// BillableApartmentStatuses estados que participan en la facturación mensual.
var BillableApartmentStatuses = []string{ApartmentStatusOccupied, ApartmentStatusAvailable}

// ApartmentType tipo de apartamento del conjunto (área, distribución).
type ApartmentType struct {
	ID               string
	ConjuntoConfigID string
	Name             string
	AreaSqm          float64
}

// Apartment unidad residencial perteneciente a un conjunto.
type Apartment struct {
	ID                string
	ConjuntoConfigID  string
	ApartmentTypeID   string
	ApartmentTypeName string // desnormalizado para reportes y logs
	Number            string // p. ej. "1101": torre + piso + posición
	Tower             string
	Floor             int
	Status            string // ver constantes ApartmentStatus*
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsBillable indica si el apartamento participa en la facturación mensual.
func (a *Apartment) IsBillable() bool {
	for _, s := range BillableApartmentStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// FullAddress dirección corta usada en facturas y correos.
func (a *Apartment) FullAddress() string {
	if a.Tower == "" {
		return "Apto " + a.Number
	}
	return "Torre " + a.Tower + " - Apto " + a.Number
}
