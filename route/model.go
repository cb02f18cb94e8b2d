package route

import (
	"fmt"
	"math"

	"github.com/bluele/gcache"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Model is the immutable rail line plus its stations.
type Model struct {
	line     orb.LineString
	segKM    []float64
	cumKM    []float64
	stations []Waypoint
	byName   map[string]int
	cache    gcache.Cache
}

// Option configures a Model.
type Option func(*Model)

// WithProjectionCache memoizes observer projections in an LRU cache of the
// given size. A size <= 0 disables the cache.
func WithProjectionCache(size int) Option {
	return func(m *Model) {
		if size > 0 {
			m.cache = gcache.New(size).LRU().Build()
		}
	}
}

// NewModel builds a Model from a polyline and stations already in display order.
func NewModel(line []Position, stations []Waypoint, opts ...Option) (*Model, error) {
	if len(line) < 2 {
		return nil, ErrShortLine
	}
	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	m := &Model{
		line:     make(orb.LineString, len(line)),
		segKM:    make([]float64, len(line)-1),
		cumKM:    make([]float64, len(line)),
		stations: make([]Waypoint, len(stations)),
		byName:   make(map[string]int, len(stations)),
	}
	for i, p := range line {
		m.line[i] = p.point()
	}
	for i := 1; i < len(m.line); i++ {
		m.segKM[i-1] = haversineKM(m.line[i-1], m.line[i])
		m.cumKM[i] = m.cumKM[i-1] + m.segKM[i-1]
	}
	for i, s := range stations {
		if s.Name == "" {
			return nil, ErrUnnamedStation
		}
		if _, dup := m.byName[s.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStation, s.Name)
		}
		m.byName[s.Name] = i
		m.stations[i] = s
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Length returns the total line length in km.
func (m *Model) Length() float64 { return m.cumKM[len(m.cumKM)-1] }

// Line returns a copy of the polyline.
func (m *Model) Line() []Position {
	out := make([]Position, len(m.line))
	for i, pt := range m.line {
		out[i] = fromPoint(pt)
	}
	return out
}

// Stations returns the stations in display order.
func (m *Model) Stations() []Waypoint {
	out := make([]Waypoint, len(m.stations))
	copy(out, m.stations)
	return out
}

// Station looks a station up by name.
func (m *Model) Station(name string) (Waypoint, error) {
	i, ok := m.byName[name]
	if !ok {
		return Waypoint{}, fmt.Errorf("%w: %q", ErrStationNotFound, name)
	}
	return m.stations[i], nil
}

// DistanceAlongRoute returns the km between the projections of from and to
// onto the line. Points off the line are snapped to the nearest point of the
// line, which is an endpoint when they lie beyond either end.
func (m *Model) DistanceAlongRoute(from, to Position) float64 {
	if from == to {
		return 0
	}
	return math.Abs(m.Locate(from).AlongKM - m.Locate(to).AlongKM)
}

// StraightLineDistance returns the great-circle distance in km.
func (m *Model) StraightLineDistance(a, b Position) float64 {
	return StraightLineDistance(a, b)
}

// StraightLineDistance returns the great-circle distance in km between two
// raw positions, independent of any line.
func StraightLineDistance(a, b Position) float64 {
	if a == b {
		return 0
	}
	return haversineKM(a.point(), b.point())
}

// Locate snaps p onto the nearest segment of the line.
func (m *Model) Locate(p Position) Projection {
	if m.cache != nil {
		if v, err := m.cache.Get(p); err == nil {
			return v.(Projection)
		}
	}
	proj := m.project(p.point())
	if m.cache != nil {
		_ = m.cache.Set(p, proj)
	}
	return proj
}

func (m *Model) project(pt orb.Point) Projection {
	best := Projection{OffsetKM: math.Inf(1)}
	for i := 0; i < len(m.line)-1; i++ {
		a, b := m.line[i], m.line[i+1]
		t := segmentFraction(a, b, pt)
		snap := orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
		d := haversineKM(pt, snap)
		if d < best.OffsetKM {
			best = Projection{
				Point:    fromPoint(snap),
				Segment:  i,
				AlongKM:  m.cumKM[i] + t*m.segKM[i],
				OffsetKM: d,
			}
		}
	}
	return best
}

// segmentFraction projects p onto segment ab in a local equirectangular
// frame and clamps the result to [0, 1].
func segmentFraction(a, b, p orb.Point) float64 {
	k := math.Cos((a[1] + b[1]) / 2 * math.Pi / 180)
	vx := (b[0] - a[0]) * k
	vy := b[1] - a[1]
	wx := (p[0] - a[0]) * k
	wy := p[1] - a[1]
	denom := vx*vx + vy*vy
	if denom == 0 {
		return 0
	}
	t := (wx*vx + wy*vy) / denom
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// MeanEarthRadiusKM is the IUGG mean radius. Distances are reported on this
// sphere rather than on orb's equatorial one.
const MeanEarthRadiusKM = 6371.0088

func haversineKM(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) / orb.EarthRadius * MeanEarthRadiusKM
}
