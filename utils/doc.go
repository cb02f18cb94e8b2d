// Package utils provides internal utility functions for the railtracker service.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Time formatting and conversion utilities
//   - Distance and duration formatting for riders
package utils
