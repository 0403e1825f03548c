package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 365, cfg.Insights.LookbackDays)
	assert.Equal(t, 120, cfg.Insights.SessionGapMinutes)
	assert.InDelta(t, 1.5, cfg.Insights.SeasonalFactor, 1e-9)
	assert.Equal(t, 330, cfg.Insights.MinSeasonalSpanDays)
	assert.Equal(t, "openai", cfg.AI.Provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AI_PROVIDER", "Anthropic")
	t.Setenv("INSIGHTS_PREDICTION_CONFIDENCE", "0.65")
	t.Setenv("INSIGHTS_HORIZON_DAYS", "no-es-numero")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.InDelta(t, 0.65, cfg.Insights.PredictionConfidence, 1e-9)
	assert.Equal(t, 7, cfg.Insights.HorizonDays, "valor inválido usa el default")
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "despensa", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/despensa?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
