package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "stock-ledger", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestFromViper_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STOCK_CACHE_TTL_SECONDS", "5")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("JWT_SECRET", "s3cr3t")

	v := viper.New()
	v.AutomaticEnv()
	cfg := fromViper(v)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.DB.AutoMigrate)
	require.NoError(t, cfg.Validate())
}

func TestValidate_ReportaTodosLosErrores(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.HTTP.Port = 0
	cfg.Store.Backend = "mongo"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestDSN_EscapaContrasena(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
