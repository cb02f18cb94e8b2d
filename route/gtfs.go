package route

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
)

var ErrShapeNotFound = errors.New("shape not found in GTFS feed")

type gtfsStop struct {
	name     string
	lon, lat float64
}

type shapePoint struct {
	lon, lat float64
	seq      int
}

// LoadGTFS builds a Model from a GTFS static zip. The line is shapes.txt
// filtered on shapeID; stations are the stops lying within maxOffsetKM of
// that line, in along-line order. Stops sharing a name (platforms) collapse
// into the first one met along the line.
func LoadGTFS(r io.ReaderAt, size int64, shapeID string, maxOffsetKM float64, opts ...Option) (*Model, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open gtfs zip: %w", err)
	}
	var shape []shapePoint
	var stops []gtfsStop
	for _, f := range zr.File {
		switch strings.ToLower(f.Name) {
		case "shapes.txt":
			rec, err := readCSV(f)
			if err != nil {
				return nil, err
			}
			shape = parseShape(rec, shapeID)
		case "stops.txt":
			rec, err := readCSV(f)
			if err != nil {
				return nil, err
			}
			stops = parseStops(rec)
		}
	}
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrShapeNotFound, shapeID)
	}
	sort.Slice(shape, func(i, j int) bool { return shape[i].seq < shape[j].seq })
	line := make([]Position, len(shape))
	for i, p := range shape {
		line[i] = Position{Longitude: p.lon, Latitude: p.lat}
	}

	// Probe model with a placeholder station, used only to project stops.
	probe, err := NewModel(line, []Waypoint{{Name: "probe", Position: line[0]}})
	if err != nil {
		return nil, err
	}
	type located struct {
		wp      Waypoint
		alongKM float64
	}
	var near []located
	for _, s := range stops {
		pos := Position{Longitude: s.lon, Latitude: s.lat}
		proj := probe.Locate(pos)
		if proj.OffsetKM > maxOffsetKM {
			continue
		}
		near = append(near, located{wp: Waypoint{Name: s.name, Position: pos}, alongKM: proj.AlongKM})
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].alongKM < near[j].alongKM })

	seen := map[string]bool{}
	var stations []Waypoint
	for _, n := range near {
		if seen[n.wp.Name] {
			continue
		}
		seen[n.wp.Name] = true
		stations = append(stations, n.wp)
	}
	slices.Reverse(stations)
	return NewModel(line, stations, opts...)
}

func readCSV(f *zip.File) ([][]string, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return rec, nil
}

func columnIndex(head []string) func(string) int {
	return func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), col) {
				return i
			}
		}
		return -1
	}
}

func parseShape(rec [][]string, shapeID string) []shapePoint {
	if len(rec) == 0 {
		return nil
	}
	idx := columnIndex(rec[0])
	sh, latIdx, lonIdx, seqIdx := idx("shape_id"), idx("shape_pt_lat"), idx("shape_pt_lon"), idx("shape_pt_sequence")
	if sh < 0 || latIdx < 0 || lonIdx < 0 || seqIdx < 0 {
		return nil
	}
	var out []shapePoint
	for _, row := range rec[1:] {
		if len(row) <= max(sh, latIdx, lonIdx, seqIdx) || row[sh] != shapeID {
			continue
		}
		lat, err1 := strconv.ParseFloat(row[latIdx], 64)
		lon, err2 := strconv.ParseFloat(row[lonIdx], 64)
		seq, err3 := strconv.Atoi(row[seqIdx])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		out = append(out, shapePoint{lon: lon, lat: lat, seq: seq})
	}
	return out
}

func parseStops(rec [][]string) []gtfsStop {
	if len(rec) == 0 {
		return nil
	}
	idx := columnIndex(rec[0])
	sN, sLat, sLon := idx("stop_name"), idx("stop_lat"), idx("stop_lon")
	if sN < 0 || sLat < 0 || sLon < 0 {
		return nil
	}
	var out []gtfsStop
	for _, row := range rec[1:] {
		if len(row) <= max(sN, sLat, sLon) || row[sN] == "" {
			continue
		}
		lat, err1 := strconv.ParseFloat(row[sLat], 64)
		lon, err2 := strconv.ParseFloat(row[sLon], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, gtfsStop{name: row[sN], lon: lon, lat: lat})
	}
	return out
}
