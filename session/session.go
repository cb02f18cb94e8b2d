// Package session is the application context: it owns the route model, the
// motion tracker, the estimator and the selected station.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

var ErrTargetNotFound = errors.New("target not found")

// Config carries what a session needs besides the route.
type Config struct {
	Origin   route.Position
	Interval time.Duration
	Estimate estimate.Config
}

// Listener receives fresh metrics after a sample or a selection change.
type Listener func(estimate.Metrics)

// Session serializes sample writes, selection writes and metric reads.
type Session struct {
	ID      uuid.UUID
	Started time.Time

	mu        sync.RWMutex
	model     *route.Model
	tracker   *tracking.Tracker
	estimator *estimate.Estimator
	selected  route.Waypoint

	lmu       sync.Mutex
	listeners []Listener
}

// New starts a session targeting the first displayed station.
func New(model *route.Model, cfg Config) *Session {
	tr := tracking.NewTracker(cfg.Origin, cfg.Interval)
	return &Session{
		ID:        uuid.New(),
		Started:   time.Now(),
		model:     model,
		tracker:   tr,
		estimator: estimate.New(model, tr, cfg.Estimate),
		selected:  model.Stations()[0],
	}
}

func (s *Session) Model() *route.Model { return s.model }

// Select changes the target. Unknown names fail and keep the old target.
func (s *Session) Select(name string) error {
	wp, err := s.model.Station(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTargetNotFound, err)
	}
	s.mu.Lock()
	s.selected = wp
	m := s.estimator.Estimate(wp)
	s.mu.Unlock()
	log.Printf("target selected: %s", name)
	s.notify(m)
	return nil
}

func (s *Session) Selected() route.Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Record feeds one sample to the tracker.
func (s *Session) Record(sample tracking.Sample) {
	s.mu.Lock()
	s.tracker.Record(sample)
	m := s.estimator.Estimate(s.selected)
	s.mu.Unlock()
	s.notify(m)
}

// Metrics returns the figures for the selected station.
func (s *Session) Metrics() estimate.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estimator.Estimate(s.selected)
}

// MetricsFor returns the figures for any station by name.
func (s *Session) MetricsFor(name string) (estimate.Metrics, error) {
	wp, err := s.model.Station(name)
	if err != nil {
		return estimate.Metrics{}, fmt.Errorf("%w: %w", ErrTargetNotFound, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estimator.Estimate(wp), nil
}

// Samples returns how many samples the tracker has seen.
func (s *Session) Samples() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Samples()
}

// Subscribe registers fn for every future update.
func (s *Session) Subscribe(fn Listener) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

func (s *Session) notify(m estimate.Metrics) {
	s.lmu.Lock()
	ls := make([]Listener, len(s.listeners))
	copy(ls, s.listeners)
	s.lmu.Unlock()
	for _, fn := range ls {
		fn(m)
	}
}

// Consume records samples from ch until ctx ends or ch is closed. It is the
// only writer of tracker state.
func (s *Session) Consume(ctx context.Context, ch <-chan tracking.Sample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample, ok := <-ch:
			if !ok {
				return nil
			}
			s.Record(sample)
		}
	}
}
