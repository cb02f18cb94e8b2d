package sampler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

// ErrReplayExhausted is a no-fix condition, so the poller skips quietly.
var ErrReplayExhausted = fmt.Errorf("replay exhausted: %w", ErrNoFix)

// ReplaySource steps through recorded positions, one per Fetch.
type ReplaySource struct {
	mu     sync.Mutex
	points []route.Position
	next   int
	loop   bool
	now    func() time.Time
}

func NewReplaySource(points []route.Position, loop bool) *ReplaySource {
	return &ReplaySource{points: points, loop: loop, now: time.Now}
}

// LoadReplayFile reads LineString coordinates or Point features, in file order.
func LoadReplayFile(path string, loop bool) (*ReplaySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	var pts []route.Position
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			pts = append(pts, route.Position{Longitude: g.Lon(), Latitude: g.Lat()})
		case orb.LineString:
			for _, p := range g {
				pts = append(pts, route.Position{Longitude: p.Lon(), Latitude: p.Lat()})
			}
		}
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("replay %s: no positions", path)
	}
	return NewReplaySource(pts, loop), nil
}

func (s *ReplaySource) Fetch(ctx context.Context) (tracking.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.points) {
		if !s.loop || len(s.points) == 0 {
			return tracking.Sample{}, ErrReplayExhausted
		}
		s.next = 0
	}
	p := s.points[s.next]
	s.next++
	return tracking.Sample{Position: p, Time: s.now()}, nil
}
