package utils

import (
	"fmt"
	"time"
)

// Iso8601 formats t in UTC as RFC3339
func Iso8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// ValidUntilFrom returns base plus one sampling interval, or "" when unknown
func ValidUntilFrom(base time.Time, interval time.Duration) string {
	if base.IsZero() || interval <= 0 {
		return ""
	}
	return Iso8601(base.Add(interval))
}

// FormatETA breaks d into whole minutes and seconds, e.g. "12 min 05 s".
// Hours are folded into minutes.
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d min %02d s", total/60, total%60)
}

// FormatKM formats a distance with two decimals
func FormatKM(km float64) string {
	return fmt.Sprintf("%.2f km", km)
}

// FormatSpeed formats a speed with two decimals
func FormatSpeed(kmh float64) string {
	return fmt.Sprintf("%.2f km/h", kmh)
}
