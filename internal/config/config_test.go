package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spsina/bookStore/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL)
	assert.Equal(t, "https://ipg.vandar.io", cfg.Vandar.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=bookstore sslmode=disable", cfg.DSN())
}

func TestLoadDatabaseURLWins(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/books")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/books", cfg.DSN())
}

func TestLoadProdNeedsGatewayKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GO_ENV", "prod")
	t.Setenv("VANDAR_API_KEY", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "VANDAR_API_KEY")
}
