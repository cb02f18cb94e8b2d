// Package railtracker serves the live position, speed and arrival estimate
// of an observer travelling along a fixed rail line.
//
// The core lives in the route, tracking and estimate packages. This package
// wires them to the outside: an HTTP API for station selection and device
// position pushes, a WebSocket stream of display figures, and two publishing
// formats for the observer's state:
//
//   - SIRI VehicleMonitoring (JSON and XML), with the selected station as the
//     MonitoredCall
//   - GTFS-Realtime VehiclePositions (protobuf)
package railtracker
