package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/repository"
)

type ReadingService struct {
	repos    *repository.Repos
	archiver Archiver
}

// readingPayload is the body of /submit_data and of MQTT reading messages.
type readingPayload struct {
	SensorID  int64    `json:"sensor_id"`
	DataType  string   `json:"data_type"`
	Value     *float64 `json:"value"`
	Timestamp string   `json:"timestamp"`
}

// ParseReading validates a submission body.
func ParseReading(payload []byte) (domain.NewReading, error) {
	var p readingPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return domain.NewReading{}, fmt.Errorf("decode reading: %w: %w", domain.ErrInvalidInput, err)
	}
	return p.toReading()
}

func (p readingPayload) toReading() (domain.NewReading, error) {
	switch {
	case p.SensorID <= 0:
		return domain.NewReading{}, fmt.Errorf("sensor_id must be a positive integer: %w", domain.ErrInvalidInput)
	case strings.TrimSpace(p.DataType) == "":
		return domain.NewReading{}, fmt.Errorf("data_type is required: %w", domain.ErrInvalidInput)
	case p.Value == nil:
		return domain.NewReading{}, fmt.Errorf("value is required: %w", domain.ErrInvalidInput)
	}
	ts, err := domain.ParseTimestamp(p.Timestamp)
	if err != nil {
		return domain.NewReading{}, err
	}
	return domain.NewReading{SensorID: p.SensorID, DataType: p.DataType, Value: *p.Value, Timestamp: ts}, nil
}

func (s *ReadingService) Submit(ctx context.Context, rd domain.NewReading) (int64, error) {
	return s.repos.SubmitReading(ctx, rd)
}

// FromMQTT stores one reading published on the readings topic.
func (s *ReadingService) FromMQTT(ctx context.Context, topic string, payload []byte) (int64, error) {
	rd, err := ParseReading(payload)
	if err != nil {
		return 0, fmt.Errorf("topic %s: %w", topic, err)
	}
	id, err := s.repos.SubmitReading(ctx, rd)
	if err != nil {
		return 0, fmt.Errorf("topic %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Int64("sensor_id", rd.SensorID).Int64("data_id", id).Msg("reading ingested")
	return id, nil
}

// Latest groups readings per sensor. A positive limit keeps only the most
// recent limit points of each sensor.
func (s *ReadingService) Latest(ctx context.Context, limit int) (map[int64][]domain.Point, error) {
	groups, err := s.repos.LatestBySensor(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		for id, points := range groups {
			if len(points) > limit {
				groups[id] = points[len(points)-limit:]
			}
		}
	}
	return groups, nil
}

func (s *ReadingService) DeleteByRange(ctx context.Context, sensorID int64, start, end time.Time) (int64, error) {
	s.archive(ctx, sensorID, "delete_data_range", repository.ReadingFilter{SensorID: &sensorID, Start: &start, End: &end})
	return s.repos.DeleteReadingsByRange(ctx, sensorID, start, end)
}

func (s *ReadingService) DeleteSensor(ctx context.Context, sensorID int64) (int64, error) {
	s.archive(ctx, sensorID, "delete_sensor", repository.ReadingFilter{SensorID: &sensorID})
	return s.repos.DeleteSensor(ctx, sensorID)
}

// archive is best effort: failures are logged and the delete proceeds.
func (s *ReadingService) archive(ctx context.Context, sensorID int64, reason string, f repository.ReadingFilter) {
	if s.archiver == nil {
		return
	}
	readings, err := s.repos.QueryReadings(ctx, f)
	if err != nil {
		log.Warn().Err(err).Int64("sensor_id", sensorID).Msg("archive: query failed")
		return
	}
	if len(readings) == 0 {
		return
	}
	if err := s.archiver.ArchiveReadings(ctx, sensorID, reason, readings); err != nil {
		log.Warn().Err(err).Int64("sensor_id", sensorID).Int("readings", len(readings)).Msg("archive failed")
		return
	}
	log.Info().Int64("sensor_id", sensorID).Int("readings", len(readings)).Str("reason", reason).Msg("readings archived")
}
