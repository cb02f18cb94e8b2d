package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order when no explicit path is given
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// DefaultConfig returns the values used for any field left unset
func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 16181},
		Route: RouteConfig{
			StationNameProperty: "name",
			MaxStationOffsetKM:  0.05,
			ProjectionCacheSize: 256,
		},
		Tracking: TrackingConfig{
			SampleIntervalMS:  1000,
			SpeedThresholdKMH: 5,
			DefaultSpeedKMH:   13.1,
			Origin:            Coordinate{Longitude: 139.7918319, Latitude: 35.7318969},
		},
		Source: SourceConfig{
			Kind:   "push",
			GTFSRT: GTFSRTSourceConfig{TimeoutMS: 10000},
		},
		Publish: PublishConfig{
			ProducerRef: "RAILTRACKER",
			DataSource:  "RAILTRACKER",
		},
	}
}

// LoadAppConfig reads the first config file found among paths (DefaultPaths
// when empty), applies defaults and validates the result
func LoadAppConfig(paths ...string) (*AppConfig, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates it
func Parse(data []byte) (*AppConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags plus the per-source requirements
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch cfg.Source.Kind {
	case "gtfsrt":
		if cfg.Source.GTFSRT.VehiclePositionsURL == "" || cfg.Source.GTFSRT.VehicleID == "" {
			return errors.New("invalid config: gtfsrt source needs vehiclePositionsURL and vehicleID")
		}
	case "replay":
		if cfg.Source.Replay.File == "" {
			return errors.New("invalid config: replay source needs file")
		}
	}
	return nil
}

// SampleInterval returns the sampling cadence as a duration
func (c *AppConfig) SampleInterval() time.Duration {
	return time.Duration(c.Tracking.SampleIntervalMS) * time.Millisecond
}

// SourceTimeout returns the per-fetch timeout of remote sources
func (c *AppConfig) SourceTimeout() time.Duration {
	return time.Duration(c.Source.GTFSRT.TimeoutMS) * time.Millisecond
}
