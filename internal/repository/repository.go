package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/database"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) RegisterSensor(ctx context.Context, name, sensorType string, location *string) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id,
		r.db.Rebind(`INSERT INTO sensors (name, type, location) VALUES (?, ?, ?) RETURNING id`),
		name, sensorType, location)
	if err != nil {
		return 0, fmt.Errorf("register sensor: %w", database.StoreError(err))
	}
	return id, nil
}

func (r *Repos) SubmitReading(ctx context.Context, rd domain.NewReading) (int64, error) {
	var id int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := sensorExists(ctx, tx, rd.SensorID); err != nil {
			return err
		}
		return tx.GetContext(ctx, &id,
			tx.Rebind(`INSERT INTO sensor_data (sensor_id, data_type, value, timestamp) VALUES (?, ?, ?, ?) RETURNING id`),
			rd.SensorID, rd.DataType, rd.Value, domain.FormatTimestamp(rd.Timestamp))
	})
	if err != nil {
		return 0, fmt.Errorf("submit reading: %w", err)
	}
	return id, nil
}

func (r *Repos) QueryReadings(ctx context.Context, f ReadingFilter) ([]domain.Reading, error) {
	p := f.predicate()
	query := r.db.Rebind(`SELECT id, sensor_id, data_type, value, timestamp FROM sensor_data` + p.where() + ` ORDER BY id`)
	out := []domain.Reading{}
	if err := r.db.SelectContext(ctx, &out, query, p.args...); err != nil {
		return nil, fmt.Errorf("query readings: %w", database.StoreError(err))
	}
	return out, nil
}

// LatestBySensor returns every reading grouped by sensor, oldest first.
func (r *Repos) LatestBySensor(ctx context.Context) (map[int64][]domain.Point, error) {
	var rows []struct {
		SensorID int64 `db:"sensor_id"`
		domain.Point
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT sensor_id, value, timestamp FROM sensor_data ORDER BY sensor_id, timestamp, id`)
	if err != nil {
		return nil, fmt.Errorf("latest by sensor: %w", database.StoreError(err))
	}
	out := make(map[int64][]domain.Point)
	for _, row := range rows {
		out[row.SensorID] = append(out[row.SensorID], row.Point)
	}
	return out, nil
}

func (r *Repos) ListSensors(ctx context.Context) ([]domain.Sensor, error) {
	out := []domain.Sensor{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name, type, location FROM sensors ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list sensors: %w", database.StoreError(err))
	}
	return out, nil
}

// MaxDeleteIDs bounds the id list of a single delete so the IN clause stays
// under driver placeholder limits.
const MaxDeleteIDs = 1000

func (r *Repos) DeleteReadingsByID(ctx context.Context, sensorID int64, ids []int64) (int64, error) {
	if len(ids) > MaxDeleteIDs {
		return 0, fmt.Errorf("delete readings: at most %d data ids per request, got %d: %w",
			MaxDeleteIDs, len(ids), domain.ErrInvalidInput)
	}
	var deleted int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := sensorExists(ctx, tx, sensorID); err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no data ids given for sensor %d: %w", sensorID, domain.ErrNothingDeleted)
		}
		query, args, err := sqlx.In(`DELETE FROM sensor_data WHERE sensor_id = ? AND id IN (?)`, sensorID, ids)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return err
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("no matching data found for sensor %d: %w", sensorID, domain.ErrNothingDeleted)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete readings: %w", err)
	}
	return deleted, nil
}

func (r *Repos) DeleteReadingsByRange(ctx context.Context, sensorID int64, start, end time.Time) (int64, error) {
	from, to := domain.FormatTimestamp(start), domain.FormatTimestamp(end)
	var deleted int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := sensorExists(ctx, tx, sensorID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM sensor_data WHERE sensor_id = ? AND timestamp >= ? AND timestamp <= ?`),
			sensorID, from, to)
		if err != nil {
			return err
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("no data found for sensor %d between %s and %s: %w", sensorID, from, to, domain.ErrNothingDeleted)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete readings by range: %w", err)
	}
	return deleted, nil
}

// DeleteSensor removes the sensor and its readings atomically and returns
// the number of readings removed.
func (r *Repos) DeleteSensor(ctx context.Context, sensorID int64) (int64, error) {
	var deleted int64
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := sensorExists(ctx, tx, sensorID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sensor_data WHERE sensor_id = ?`), sensorID)
		if err != nil {
			return err
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sensors WHERE id = ?`), sensorID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete sensor: %w", err)
	}
	return deleted, nil
}

// SystemStatus counts sensors and readings in two separate statements.
func (r *Repos) SystemStatus(ctx context.Context) (domain.Status, error) {
	st := domain.Status{CheckedAt: time.Now().UTC()}
	if err := r.db.GetContext(ctx, &st.Sensors, `SELECT COUNT(*) FROM sensors`); err != nil {
		return st, fmt.Errorf("count sensors: %w", database.StoreError(err))
	}
	if err := r.db.GetContext(ctx, &st.Readings, `SELECT COUNT(*) FROM sensor_data`); err != nil {
		return st, fmt.Errorf("count readings: %w", database.StoreError(err))
	}
	return st, nil
}

func sensorExists(ctx context.Context, tx *sqlx.Tx, sensorID int64) error {
	var id int64
	err := tx.GetContext(ctx, &id, tx.Rebind(`SELECT id FROM sensors WHERE id = ?`), sensorID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sensor %d: %w", sensorID, domain.ErrSensorNotFound)
	}
	return err
}
