package maintenance

import (
	"fmt"
	"time"

	"github.com/markmed/fleetman/pkg/schedule"
)

// Config holds the daily tick settings.
type Config struct {
	Timezone string `env:"MAINTENANCE_TIMEZONE" envDefault:"UTC"`
	RunAt    string `env:"MAINTENANCE_RUN_AT" envDefault:"00:30"`
}

// Location loads Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTimezone, c.Timezone, err)
	}
	return loc, nil
}

// Schedule returns the daily schedule at RunAt in Timezone.
func (c Config) Schedule() (schedule.Schedule, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := schedule.ParseClock(c.RunAt)
	if err != nil {
		return nil, err
	}
	return schedule.DailyAt(hour, minute, loc), nil
}
