package domain

import "time"

type Sensor struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Type     string  `db:"type" json:"type"`
	Location *string `db:"location" json:"location"`
}

// Reading is one timestamped measurement. Timestamp holds the canonical
// text form produced by FormatTimestamp.
type Reading struct {
	ID        int64   `db:"id" json:"id"`
	SensorID  int64   `db:"sensor_id" json:"sensor_id"`
	DataType  string  `db:"data_type" json:"data_type"`
	Value     float64 `db:"value" json:"value"`
	Timestamp string  `db:"timestamp" json:"timestamp"`
}

type Point struct {
	Value     float64 `db:"value" json:"value"`
	Timestamp string  `db:"timestamp" json:"timestamp"`
}

// NewReading is the input of a reading submission.
type NewReading struct {
	SensorID  int64
	DataType  string
	Value     float64
	Timestamp time.Time
}

type Status struct {
	Sensors   int64
	Readings  int64
	CheckedAt time.Time
}
