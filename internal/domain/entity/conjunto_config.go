package entity

import (
	"strconv"
	"time"
)

// ConjuntoConfig configuración de un conjunto residencial (torres, pisos y apartamentos por piso).
// A lo sumo una configuración puede estar activa por despliegue.
type ConjuntoConfig struct {
	ID                 string
	Name               string
	Description        string
	NumberOfTowers     int
	FloorsPerTower     int
	ApartmentsPerFloor int
	IsActive           bool
	TowerNames         []string // opcional; vacío = torres numeradas 1..N
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EstimatedApartmentsCount total de apartamentos según la geometría declarada.
func (c *ConjuntoConfig) EstimatedApartmentsCount() int {
	return c.NumberOfTowers * c.FloorsPerTower * c.ApartmentsPerFloor
}

// TowerNamesList nombres de las torres; si no se configuraron se numeran desde 1.
func (c *ConjuntoConfig) TowerNamesList() []string {
	if len(c.TowerNames) > 0 {
		return c.TowerNames
	}
	names := make([]string, 0, c.NumberOfTowers)
	for i := 1; i <= c.NumberOfTowers; i++ {
		names = append(names, strconv.Itoa(i))
	}
	return names
}
