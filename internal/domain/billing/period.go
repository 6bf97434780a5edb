package billing

import (
	"fmt"
	"time"
)

// Política por defecto: rango de cordura para el año y días de plazo de pago.
const (
	DefaultMinYear = 2020
	DefaultMaxYear = 2030
	DefaultDueDays = 15
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// PeriodPolicy límites de validación del período y plazo de vencimiento.
type PeriodPolicy struct {
	MinYear int
	MaxYear int
	DueDays int
}

// DefaultPeriodPolicy 2020–2030 y 15 días de plazo.
func DefaultPeriodPolicy() PeriodPolicy {
	return PeriodPolicy{MinYear: DefaultMinYear, MaxYear: DefaultMaxYear, DueDays: DefaultDueDays}
}

// Validate rechaza años fuera de [MinYear, MaxYear] y meses fuera de [1, 12].
func (p PeriodPolicy) Validate(year, month int) error {
	if year < p.MinYear || year > p.MaxYear {
		return InvalidYear(p.MinYear, p.MaxYear)
	}
	if month < 1 || month > 12 {
		return InvalidMonth()
	}
	return nil
}

// DueDate fecha de vencimiento a partir de la fecha de facturación.
func (p PeriodPolicy) DueDate(billingDate time.Time) time.Time {
	return billingDate.AddDate(0, 0, p.DueDays)
}

// Period mes calendario facturado: del primer al último día, ambos inclusive.
type Period struct {
	Year  int
	Month int
	Start time.Time
	End   time.Time
}

// NewPeriod construye la ventana del mes en la zona horaria dada (UTC si loc es nil).
func NewPeriod(year, month int, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	return Period{Year: year, Month: month, Start: start, End: end}
}

// Key identificador "YYYY-MM".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Label etiqueta legible, p. ej. "marzo 2025".
func (p Period) Label() string {
	if p.Month < 1 || p.Month > 12 {
		return p.Key()
	}
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}
