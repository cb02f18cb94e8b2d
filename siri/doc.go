// Package siri defines the SIRI (Service Interface for Real-time Information)
// VehicleMonitoring types used to publish the tracked observer.
//
// SIRI is a European standard (CEN/TS 15531) for real-time public transport
// information. Only the VehicleMonitoringDelivery (VM) module is modeled:
// one VehicleActivity for the observer, with a MonitoredCall describing the
// selected station and the distance/arrival figures towards it.
//
// All types include JSON struct tags; XML is written by package formatter.
package siri
