package route

import (
	"errors"

	"github.com/paulmach/orb"
)

var (
	ErrShortLine          = errors.New("route line needs at least 2 points")
	ErrNoStations         = errors.New("route has no stations")
	ErrDuplicateStation   = errors.New("duplicate station name")
	ErrStationNotFound    = errors.New("station not found")
	ErrUnnamedStation     = errors.New("station without a name")
	ErrLineFeatureMissing = errors.New("no LineString feature in line collection")
)

// Position is a WGS84 coordinate in degrees.
type Position struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func (p Position) point() orb.Point { return orb.Point{p.Longitude, p.Latitude} }

func fromPoint(pt orb.Point) Position { return Position{Longitude: pt.Lon(), Latitude: pt.Lat()} }

// Waypoint is a named station on or near the line.
type Waypoint struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// Projection is the result of snapping a position onto the line.
type Projection struct {
	Point    Position `json:"point"`
	Segment  int      `json:"segment"`
	AlongKM  float64  `json:"along_km"`
	OffsetKM float64  `json:"offset_km"`
}
