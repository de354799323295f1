package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/repository"
)

// Archiver stores readings somewhere durable before they are deleted.
type Archiver interface {
	ArchiveReadings(ctx context.Context, sensorID int64, reason string, readings []domain.Reading) error
}

// Publisher sends a payload to a message topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type Option func(*options)

type options struct {
	archiver     Archiver
	publisher    Publisher
	commandTopic string
	now          func() time.Time
}

// WithArchiver archives readings before range and sensor deletes.
func WithArchiver(a Archiver) Option {
	return func(o *options) { o.archiver = a }
}

// WithPublisher relays device commands to topic/<sensor_id>.
func WithPublisher(p Publisher, topic string) Option {
	return func(o *options) {
		o.publisher = p
		o.commandTopic = topic
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type Services struct {
	Repos      *repository.Repos
	Readings   *ReadingService
	Devices    *DeviceState
	Commands   *CommandRelay
	Collection *CollectionControl

	now       func() time.Time
	startedAt time.Time
}

func New(db *sqlx.DB, opts ...Option) *Services {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	repos := repository.New(db)
	return &Services{
		Repos:      repos,
		Readings:   &ReadingService{repos: repos, archiver: o.archiver},
		Devices:    NewDeviceState(),
		Commands:   &CommandRelay{publisher: o.publisher, topic: o.commandTopic},
		Collection: NewCollectionControl(),
		now:        o.now,
		startedAt:  o.now(),
	}
}

type StatusReport struct {
	Sensors  int64
	Readings int64
	Time     time.Time
	Uptime   time.Duration
}

func (s *Services) Status(ctx context.Context) (StatusReport, error) {
	st, err := s.Repos.SystemStatus(ctx)
	if err != nil {
		return StatusReport{}, err
	}
	return StatusReport{
		Sensors:  st.Sensors,
		Readings: st.Readings,
		Time:     st.CheckedAt,
		Uptime:   s.now().Sub(s.startedAt).Round(time.Second),
	}, nil
}
