package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conjunto-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir()) // sin .env en el directorio

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 2020, cfg.Billing.MinYear)
	assert.Equal(t, 2030, cfg.Billing.MaxYear)
	assert.Equal(t, 15, cfg.Billing.DueDays)
	assert.Equal(t, "whole_run", cfg.Billing.TxPolicy)
	assert.Equal(t, "America/Bogota", cfg.Billing.Timezone)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntornoTienenPrioridad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BILLING_DUE_DAYS", "10")
	t.Setenv("BILLING_TX_POLICY", "per_apartment")
	t.Setenv("DB_PORT", "6543")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Billing.DueDays)
	assert.Equal(t, "per_apartment", cfg.Billing.TxPolicy)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestLoad_RangoDeAñosInvertidoEsError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BILLING_MIN_YEAR", "2031")
	t.Setenv("BILLING_MAX_YEAR", "2030")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionStringEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "admin", Password: "p@ss:w/rd", DBName: "conjunto", SSLMode: "disable"}
	assert.Equal(t, "postgres://admin:p%40ss%3Aw%2Frd@db:5432/conjunto?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@host/db"
	assert.Equal(t, "postgres://u:p@host/db", c.ConnectionString())
}
