package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

const LED = "led"

// DeviceState holds on/off flags of actuators, keyed by name. Last writer
// wins.
type DeviceState struct {
	mu    sync.RWMutex
	state map[string]bool
}

func NewDeviceState() *DeviceState {
	return &DeviceState{state: map[string]bool{LED: false}}
}

func (d *DeviceState) Get(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state[key]
}

func (d *DeviceState) Set(key string, on bool) {
	d.mu.Lock()
	d.state[key] = on
	d.mu.Unlock()
}

// ParseSwitch maps "on"/"off" (any case) to a flag.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("state must be \"on\" or \"off\", got %q: %w", s, domain.ErrInvalidInput)
}

func SwitchString(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

type CommandRelay struct {
	publisher Publisher
	topic     string
}

type Ack struct {
	SensorID  int64
	Command   string
	Published bool
}

type commandMessage struct {
	SensorID int64  `json:"sensor_id"`
	Command  string `json:"command"`
	SentAt   string `json:"sent_at"`
}

// Send logs the command and, when a publisher is configured, forwards it to
// topic/<sensor_id>. Delivery failures are logged, never retried.
func (r *CommandRelay) Send(sensorID int64, command string) (Ack, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return Ack{}, fmt.Errorf("command is required: %w", domain.ErrInvalidInput)
	}
	ack := Ack{SensorID: sensorID, Command: command}
	log.Info().Int64("sensor_id", sensorID).Str("command", command).Msg("command received")
	if r.publisher == nil {
		return ack, nil
	}

	payload, err := json.Marshal(commandMessage{
		SensorID: sensorID,
		Command:  command,
		SentAt:   domain.FormatTimestamp(time.Now()),
	})
	if err != nil {
		return ack, err
	}
	topic := fmt.Sprintf("%s/%d", r.topic, sensorID)
	if err := r.publisher.Publish(topic, payload); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("command publish failed")
		return ack, nil
	}
	ack.Published = true
	return ack, nil
}
