package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 20, cfg.DB.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, "progress", cfg.Redis.Channel)
	assert.Equal(t, 5, cfg.SRS.ReviewBatchSize)
	assert.Equal(t, "UTC", cfg.SRS.Timezone)
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, "0 * * * *", cfg.Reminders.Schedule)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://kalimat@localhost/kalimat")
	t.Setenv("SRS_REVIEW_BATCH_SIZE", "8")
	t.Setenv("SRS_TIMEZONE", "Asia/Riyadh")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://kalimat@localhost/kalimat", dsn)
	assert.Equal(t, 8, cfg.SRS.ReviewBatchSize)
	assert.Equal(t, "Asia/Riyadh", cfg.SRS.Timezone)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.ErrorIs(t, err, ErrUnknownStorageDriver)
}

func TestDB_DSN(t *testing.T) {
	_, err := DB{}.DSN()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}
