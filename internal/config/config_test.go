package config

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

func load(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	require.NoError(t, Load())
}

func TestValidateRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "")
	load(t)

	err := Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestDatabaseURLFallback(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://iot@localhost/iot")
	load(t)

	require.NoError(t, Validate())
	assert.Equal(t, "postgres://iot@localhost/iot", DBDSN())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("DB_DRIVER", "mysql")
	load(t)

	assert.True(t, errors.Is(Validate(), domain.ErrConfig))
}

func TestDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "file:test.db")
	load(t)

	assert.Equal(t, ":8080", APIAddr())
	assert.Equal(t, "pgx", DBDriver())
	assert.Equal(t, "sensors/readings", MQTTReadingsTopic())
	assert.False(t, UseCloudServices())
	assert.False(t, MQTTCommandsEnabled())
}
