package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Timestamps are canonical UTC text; both schemas compare them bytewise
// (COLLATE "C" on Postgres, BINARY by default on SQLite) so string order
// is time order whatever the server locale.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sensors (
		id       BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name     TEXT NOT NULL,
		type     TEXT NOT NULL,
		location TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sensor_data (
		id        BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		sensor_id BIGINT NOT NULL REFERENCES sensors(id) ON DELETE CASCADE,
		data_type TEXT NOT NULL,
		value     DOUBLE PRECISION NOT NULL,
		timestamp TEXT COLLATE "C" NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sensor_data_sensor_ts_idx ON sensor_data (sensor_id, timestamp)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sensors (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		type     TEXT NOT NULL,
		location TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sensor_data (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		sensor_id INTEGER NOT NULL REFERENCES sensors(id) ON DELETE CASCADE,
		data_type TEXT NOT NULL,
		value     REAL NOT NULL,
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sensor_data_sensor_ts_idx ON sensor_data (sensor_id, timestamp)`,
}

// EnsureSchema creates the sensors and sensor_data tables when missing.
// Safe to call on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := postgresSchema
	if db.DriverName() == DriverSQLite {
		stmts = sqliteSchema
	}
	return WithTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}
