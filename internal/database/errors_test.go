package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

func TestStoreError(t *testing.T) {
	constraint := errors.New("UNIQUE constraint failed")
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"nil", nil, false},
		{"conn done", fmt.Errorf("query: %w", sql.ErrConnDone), true},
		{"bad conn", driver.ErrBadConn, true},
		{"closed pool", errors.New("sql: database is closed"), true},
		{"already marked", fmt.Errorf("%w: x", domain.ErrStoreUnavailable), true},
		{"constraint", constraint, false},
		{"no rows", sql.ErrNoRows, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StoreError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(got, domain.ErrStoreUnavailable))
		})
	}
}

func TestStoreErrorOnClosedPool(t *testing.T) {
	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, db.Close())

	var n int
	err = StoreError(db.Get(&n, `SELECT COUNT(*) FROM sensors`))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = WithTx(context.Background(), db, func(tx *sqlx.Tx) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestConnectUnreachablePostgres(t *testing.T) {
	_, err := Connect(DriverPostgres, "postgres://collector@127.0.0.1:1/sensors?connect_timeout=1&sslmode=disable")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestPostgresTimestampsCompareBytewise(t *testing.T) {
	var table string
	for _, stmt := range postgresSchema {
		if strings.Contains(stmt, "sensor_data (") && strings.HasPrefix(stmt, "CREATE TABLE") {
			table = stmt
		}
	}
	require.NotEmpty(t, table)
	assert.Contains(t, table, `timestamp TEXT COLLATE "C" NOT NULL`)
}
