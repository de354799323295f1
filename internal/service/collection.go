package service

import (
	"fmt"
	"sync"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

const (
	MinCollectionInterval     = 1
	MaxCollectionInterval     = 60
	DefaultCollectionInterval = 5
)

// CollectionSettings tells data producers whether to publish and how often,
// in seconds.
type CollectionSettings struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval"`
}

type CollectionControl struct {
	mu       sync.RWMutex
	settings CollectionSettings
}

func NewCollectionControl() *CollectionControl {
	return &CollectionControl{settings: CollectionSettings{Enabled: true, Interval: DefaultCollectionInterval}}
}

func (c *CollectionControl) Get() CollectionSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (c *CollectionControl) Update(s CollectionSettings) error {
	if s.Interval < MinCollectionInterval || s.Interval > MaxCollectionInterval {
		return fmt.Errorf("interval must be between %d and %d seconds: %w",
			MinCollectionInterval, MaxCollectionInterval, domain.ErrInvalidInput)
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	return nil
}
