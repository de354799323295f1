package repository

import (
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

// ReadingFilter selects readings. Nil fields do not constrain the result;
// present ones are ANDed. Start and End are inclusive.
type ReadingFilter struct {
	SensorID *int64
	Start    *time.Time
	End      *time.Time
}

type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) add(clause string, arg any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, arg)
}

// where renders the conjunction with "?" placeholders; callers Rebind.
func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

func (f ReadingFilter) predicate() *predicate {
	p := &predicate{}
	if f.SensorID != nil {
		p.add("sensor_id = ?", *f.SensorID)
	}
	if f.Start != nil {
		p.add("timestamp >= ?", domain.FormatTimestamp(*f.Start))
	}
	if f.End != nil {
		p.add("timestamp <= ?", domain.FormatTimestamp(*f.End))
	}
	return p
}
