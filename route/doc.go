/*
Package route models the fixed rail line and its stations.

A Model is built once at startup from an ordered polyline and a set of named
station waypoints, and is read-only afterwards. It answers two questions:

  - DistanceAlongRoute: how far apart two positions are when measured along
    the line (both points are snapped to the nearest point of the polyline)
  - StraightLineDistance: the great-circle distance between two raw points

# Loading

Line and station data are usually shipped as GeoJSON feature collections:

	line, _ := os.ReadFile("data/line.geojson")
	stations, _ := os.ReadFile("data/stations.geojson")
	model, err := route.LoadGeoJSON(line, stations, "name")

A GTFS static zip can be used instead, picking one shape_id as the line and
every stop within a given offset of it as a station:

	model, err := route.LoadGTFS(zipReader, size, "shape_1", 0.05)

Station display order is the reverse of the source order.

# Units

Positions are WGS84 degrees as (longitude, latitude). Distances are
kilometers.
*/
package route
