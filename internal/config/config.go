package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceEnvironment      string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	ServiceAPIPort          string `envconfig:"SERVICE_API_PORT" default:"8080"`
	ReminderOffsetsMinutes  []int  `envconfig:"REMINDER_OFFSETS_MINUTES" default:"30"`
	RecurrenceHorizonDays   int    `envconfig:"RECURRENCE_HORIZON_DAYS" default:"90"`
	MaxOccurrencesPerSeries int    `envconfig:"MAX_OCCURRENCES_PER_SERIES" default:"100"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// ReminderOffsets converts the configured minute offsets into durations.
func (c *Config) ReminderOffsets() []time.Duration {
	offsets := make([]time.Duration, 0, len(c.ReminderOffsetsMinutes))
	for _, minutes := range c.ReminderOffsetsMinutes {
		offsets = append(offsets, time.Duration(minutes)*time.Minute)
	}
	return offsets
}

// RecurrenceHorizon returns the expansion window for unbounded series.
func (c *Config) RecurrenceHorizon() time.Duration {
	return time.Duration(c.RecurrenceHorizonDays) * 24 * time.Hour
}
