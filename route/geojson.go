package route

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON builds a Model from two GeoJSON feature collections: one
// holding the line (the first LineString or MultiLineString feature) and one
// holding the stations as Point features named by nameProperty.
func LoadGeoJSON(lineData, stationData []byte, nameProperty string, opts ...Option) (*Model, error) {
	line, err := DecodeLine(lineData)
	if err != nil {
		return nil, err
	}
	stations, err := DecodeStations(stationData, nameProperty)
	if err != nil {
		return nil, err
	}
	return NewModel(line, stations, opts...)
}

// LoadFiles is LoadGeoJSON over two file paths.
func LoadFiles(linePath, stationPath, nameProperty string, opts ...Option) (*Model, error) {
	lineData, err := os.ReadFile(linePath)
	if err != nil {
		return nil, fmt.Errorf("read line: %w", err)
	}
	stationData, err := os.ReadFile(stationPath)
	if err != nil {
		return nil, fmt.Errorf("read stations: %w", err)
	}
	return LoadGeoJSON(lineData, stationData, nameProperty, opts...)
}

// DecodeLine returns the coordinates of the first line feature. The parts of
// a MultiLineString are joined in order.
func DecodeLine(data []byte) ([]Position, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode line: %w", err)
	}
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			return toPositions(g), nil
		case orb.MultiLineString:
			var out []Position
			for _, part := range g {
				out = append(out, toPositions(part)...)
			}
			return out, nil
		}
	}
	return nil, ErrLineFeatureMissing
}

// DecodeStations returns the Point features as waypoints in display order,
// which is the reverse of the source order.
func DecodeStations(data []byte, nameProperty string) ([]Waypoint, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode stations: %w", err)
	}
	out := make([]Waypoint, 0, len(fc.Features))
	for i := len(fc.Features) - 1; i >= 0; i-- {
		f := fc.Features[i]
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		name := f.Properties.MustString(nameProperty, "")
		if name == "" {
			return nil, fmt.Errorf("%w: feature %d", ErrUnnamedStation, i)
		}
		out = append(out, Waypoint{Name: name, Position: fromPoint(pt)})
	}
	if len(out) == 0 {
		return nil, ErrNoStations
	}
	return out, nil
}

func toPositions(ls orb.LineString) []Position {
	out := make([]Position, len(ls))
	for i, pt := range ls {
		out[i] = fromPoint(pt)
	}
	return out
}
