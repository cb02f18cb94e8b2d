package sampler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

// Fix is a position reported by a device.
type Fix struct {
	Longitude float64 `json:"longitude" validate:"longitude"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	// Timestamp is unix milliseconds; zero means "now".
	Timestamp int64 `json:"timestamp" validate:"gte=0"`
}

// PushSource hands out the most recent pushed fix once.
type PushSource struct {
	mu       sync.Mutex
	validate *validator.Validate
	pending  *tracking.Sample
	now      func() time.Time
}

func NewPushSource() *PushSource {
	return &PushSource{validate: validator.New(), now: time.Now}
}

// Push stores fix as the pending sample, replacing any unread one.
func (s *PushSource) Push(fix Fix) error {
	if err := s.validate.Struct(fix); err != nil {
		return fmt.Errorf("invalid fix: %w", err)
	}
	at := s.now()
	if fix.Timestamp > 0 {
		at = time.UnixMilli(fix.Timestamp)
	}
	sample := tracking.Sample{
		Position: route.Position{Longitude: fix.Longitude, Latitude: fix.Latitude},
		Time:     at,
	}
	s.mu.Lock()
	s.pending = &sample
	s.mu.Unlock()
	return nil
}

func (s *PushSource) Fetch(ctx context.Context) (tracking.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return tracking.Sample{}, ErrNoFix
	}
	sample := *s.pending
	s.pending = nil
	return sample, nil
}
