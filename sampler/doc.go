// Package sampler acquires observer positions on a fixed cadence.
//
// A Source yields at most one Sample per call. The Poller calls it every
// interval, drops failed ticks after logging them, and forwards good samples
// over a channel to a single consumer (the session).
//
// Sources:
//   - GTFSRTSource: one vehicle from a GTFS-Realtime VehiclePositions feed
//   - ReplaySource: positions recorded in a GeoJSON file
//   - PushSource: the latest fix posted by a device
package sampler
