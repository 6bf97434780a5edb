package billing_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conjunto-api/internal/domain"
	"github.com/jhoicas/conjunto-api/internal/domain/billing"
)

func TestPeriodPolicy_Validate(t *testing.T) {
	p := billing.DefaultPeriodPolicy()

	cases := []struct {
		name    string
		year    int
		month   int
		wantErr string
	}{
		{"límite inferior", 2020, 1, ""},
		{"límite superior", 2030, 12, ""},
		{"año anterior al rango", 2019, 6, "El año debe estar entre 2020 y 2030."},
		{"año posterior al rango", 2031, 6, "El año debe estar entre 2020 y 2030."},
		{"mes cero", 2025, 0, "El mes debe estar entre 1 y 12."},
		{"mes trece", 2025, 13, "El mes debe estar entre 1 y 12."},
		{"mes negativo", 2025, -1, "El mes debe estar entre 1 y 12."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Validate(tc.year, tc.month)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tc.wantErr)

			var genErr *billing.GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, billing.KindValidation, genErr.Kind)
			assert.Equal(t, http.StatusUnprocessableEntity, genErr.StatusCode)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPeriodPolicy_RangoParametrizable(t *testing.T) {
	p := billing.PeriodPolicy{MinYear: 2018, MaxYear: 2040, DueDays: 10}
	assert.NoError(t, p.Validate(2018, 1))
	assert.NoError(t, p.Validate(2040, 12))
	assert.EqualError(t, p.Validate(2041, 1), "El año debe estar entre 2018 y 2040.")
}

func TestPeriodPolicy_DueDate(t *testing.T) {
	p := billing.DefaultPeriodPolicy()
	billingDate := time.Date(2025, 3, 20, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 4, 10, 30, 0, 0, time.UTC), p.DueDate(billingDate))
}

func TestNewPeriod_VentanaDelMes(t *testing.T) {
	cases := []struct {
		year, month int
		lastDay     int
	}{
		{2025, 3, 31},
		{2025, 4, 30},
		{2024, 2, 29}, // bisiesto
		{2025, 2, 28},
		{2025, 12, 31},
	}
	for _, tc := range cases {
		p := billing.NewPeriod(tc.year, tc.month, time.UTC)
		assert.Equal(t, time.Date(tc.year, time.Month(tc.month), 1, 0, 0, 0, 0, time.UTC), p.Start)
		assert.Equal(t, time.Date(tc.year, time.Month(tc.month), tc.lastDay, 0, 0, 0, 0, time.UTC), p.End)
	}
}

func TestPeriod_KeyYLabel(t *testing.T) {
	p := billing.NewPeriod(2025, 3, nil)
	assert.Equal(t, "2025-03", p.Key())
	assert.Equal(t, "marzo 2025", p.Label())
	assert.Equal(t, time.UTC, p.Start.Location())
}
