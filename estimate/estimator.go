// Package estimate combines the route and the tracker into arrival figures
// for a chosen station.
package estimate

import (
	"math"
	"time"

	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

const (
	DefaultSpeedThresholdKMH = 5.0
	DefaultCruiseSpeedKMH    = 13.1
)

// SpeedSource tells which speed fed the ETA.
type SpeedSource string

const (
	SpeedLive    SpeedSource = "live"
	SpeedDefault SpeedSource = "default"
)

// Config holds the ETA heuristic. Live speed is used only when strictly
// above SpeedThresholdKMH; otherwise DefaultSpeedKMH is the denominator.
// Zero or negative fields take the package defaults, so Config{} behaves
// like DefaultConfig().
type Config struct {
	SpeedThresholdKMH float64
	DefaultSpeedKMH   float64
}

// DefaultConfig returns the 5 km/h threshold and 13.1 km/h cruising speed.
func DefaultConfig() Config {
	return Config{SpeedThresholdKMH: DefaultSpeedThresholdKMH, DefaultSpeedKMH: DefaultCruiseSpeedKMH}
}

// Metrics is everything a display needs for one render.
type Metrics struct {
	Target      route.Waypoint `json:"target"`
	Position    route.Position `json:"position"`
	RemainingKM float64        `json:"remaining_km"`
	AbsoluteKM  float64        `json:"absolute_km"`
	ETA         time.Duration  `json:"eta_ns"`
	SpeedKMH    float64        `json:"speed_kmh"`
	SpeedSource SpeedSource    `json:"speed_source"`
	Sampled     bool           `json:"sampled"`
	SampledAt   time.Time      `json:"sampled_at,omitempty"`
}

// Estimator is stateless; every call reads the tracker afresh.
type Estimator struct {
	model   *route.Model
	tracker *tracking.Tracker
	cfg     Config
}

func New(model *route.Model, tracker *tracking.Tracker, cfg Config) *Estimator {
	if cfg.SpeedThresholdKMH <= 0 {
		cfg.SpeedThresholdKMH = DefaultSpeedThresholdKMH
	}
	if cfg.DefaultSpeedKMH <= 0 {
		cfg.DefaultSpeedKMH = DefaultCruiseSpeedKMH
	}
	return &Estimator{model: model, tracker: tracker, cfg: cfg}
}

// RemainingDistanceKm is the along-route distance to target.
func (e *Estimator) RemainingDistanceKm(target route.Waypoint) float64 {
	return e.model.DistanceAlongRoute(e.tracker.Current(), target.Position)
}

// AbsoluteDistanceKm is the straight-line distance to target.
func (e *Estimator) AbsoluteDistanceKm(target route.Waypoint) float64 {
	return e.model.StraightLineDistance(e.tracker.Current(), target.Position)
}

// CurrentSpeedKmh forwards the tracker's speed.
func (e *Estimator) CurrentSpeedKmh() float64 {
	return e.tracker.CurrentSpeedKmh()
}

// EstimatedArrival divides the remaining distance by the live speed, or by
// the default speed when the live one is not above the threshold.
func (e *Estimator) EstimatedArrival(target route.Waypoint) time.Duration {
	d, _ := e.arrival(e.RemainingDistanceKm(target), e.CurrentSpeedKmh())
	return d
}

// Estimate bundles all figures for target.
func (e *Estimator) Estimate(target route.Waypoint) Metrics {
	remaining := e.RemainingDistanceKm(target)
	speed := e.CurrentSpeedKmh()
	eta, src := e.arrival(remaining, speed)
	return Metrics{
		Target:      target,
		Position:    e.tracker.Current(),
		RemainingKM: remaining,
		AbsoluteKM:  e.AbsoluteDistanceKm(target),
		ETA:         eta,
		SpeedKMH:    speed,
		SpeedSource: src,
		Sampled:     e.tracker.State() == tracking.Sampled,
		SampledAt:   e.tracker.LastSampleTime(),
	}
}

func (e *Estimator) arrival(remainingKM, speedKMH float64) (time.Duration, SpeedSource) {
	src := SpeedDefault
	denom := e.cfg.DefaultSpeedKMH
	if speedKMH > e.cfg.SpeedThresholdKMH && !math.IsInf(speedKMH, 0) {
		src = SpeedLive
		denom = speedKMH
	}
	hours := remainingKM / denom
	if math.IsNaN(hours) || hours < 0 {
		return 0, src
	}
	if hours*float64(time.Hour) >= math.MaxInt64 {
		return time.Duration(math.MaxInt64), src
	}
	return time.Duration(hours * float64(time.Hour)), src
}
