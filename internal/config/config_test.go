package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USERNAME", "root")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "careflow")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 60, cfg.JWTExpirationMinutes)
	assert.Equal(t, 168, cfg.JWTRefreshExpirationHours)
	assert.Equal(t, "root:secret@tcp(db:3306)/careflow?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Redis.StatsTTL)
	assert.Equal(t, time.UTC, cfg.StatsTimeZone)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoadConfig_Postgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_USERNAME", "booking")
	t.Setenv("DB_PASSWORD", "booking")
	t.Setenv("DB_NAME", "booking_db")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "host=pg user=booking")
	assert.Contains(t, cfg.Database.DSN, "dbname=booking_db")
}

func TestLoadConfig_SQLiteAndOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("STATS_TIMEZONE", "Asia/Kolkata")
	t.Setenv("SEED_ON_START", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.Database.DSN)
	assert.Equal(t, "Asia/Kolkata", cfg.StatsTimeZone.String())
	assert.True(t, cfg.SeedOnStart)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("JWT_EXPIRATION_MINUTES", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_EXPIRATION_MINUTES")
	})

	t.Run("bad driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("bad zone", func(t *testing.T) {
		t.Setenv("STATS_TIMEZONE", "Mars/Olympus")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "STATS_TIMEZONE")
	})
}
