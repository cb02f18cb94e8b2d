package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theoremus-urban-solutions/railtracker/route"
)

var (
	origin = route.Position{Longitude: 139.7918319, Latitude: 35.7318969}
	t0     = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
)

func TestTracker_Unsampled(t *testing.T) {
	tr := NewTracker(origin, time.Second)
	assert.Equal(t, Unsampled, tr.State())
	assert.Equal(t, "unsampled", tr.State().String())
	assert.Equal(t, origin, tr.Current())
	assert.Equal(t, origin, tr.Previous())
	assert.Zero(t, tr.CurrentSpeedKmh())
	assert.Zero(t, tr.Samples())
	assert.True(t, tr.LastSampleTime().IsZero())
}

func TestTracker_FirstSampleHasNoSpeed(t *testing.T) {
	tr := NewTracker(origin, time.Second)
	p := route.Position{Longitude: 0, Latitude: 0}
	tr.Record(Sample{Position: p, Time: t0})

	assert.Equal(t, Sampled, tr.State())
	assert.Equal(t, p, tr.Current())
	assert.Equal(t, p, tr.Previous())
	assert.Zero(t, tr.CurrentSpeedKmh())
}

func TestTracker_RecordShiftsWindow(t *testing.T) {
	tr := NewTracker(origin, time.Second)
	a := route.Position{Latitude: 0}
	b := route.Position{Latitude: 0.001}
	c := route.Position{Latitude: 0.002}
	tr.Record(Sample{Position: a, Time: t0})
	tr.Record(Sample{Position: b, Time: t0.Add(time.Second)})
	tr.Record(Sample{Position: c, Time: t0.Add(2 * time.Second)})

	assert.Equal(t, b, tr.Previous())
	assert.Equal(t, c, tr.Current())
	assert.Equal(t, uint64(3), tr.Samples())
	assert.Equal(t, t0.Add(2*time.Second), tr.LastSampleTime())
}

func TestTracker_StationaryIsExactlyZero(t *testing.T) {
	tr := NewTracker(origin, time.Second)
	p := route.Position{Longitude: 10, Latitude: 10}
	tr.Record(Sample{Position: p, Time: t0})
	tr.Record(Sample{Position: p, Time: t0.Add(time.Second)})
	assert.Equal(t, 0.0, tr.CurrentSpeedKmh())
}

func TestTracker_SpeedOverOneTick(t *testing.T) {
	a := route.Position{Longitude: 0, Latitude: 0}
	b := route.Position{Longitude: 0, Latitude: 0.01}
	dist := route.StraightLineDistance(a, b)

	tests := []struct {
		name  string
		ta    time.Time
		tb    time.Time
		speed float64
	}{
		{name: "timestamps one second apart", ta: t0, tb: t0.Add(time.Second), speed: dist * 3600},
		{name: "timestamps two seconds apart", ta: t0, tb: t0.Add(2 * time.Second), speed: dist * 1800},
		{name: "missing timestamps use interval", speed: dist * 3600},
		{name: "non-increasing timestamps use interval", ta: t0, tb: t0, speed: dist * 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(origin, time.Second)
			tr.Record(Sample{Position: a, Time: tt.ta})
			tr.Record(Sample{Position: b, Time: tt.tb})
			assert.InDelta(t, tt.speed, tr.CurrentSpeedKmh(), 1e-6)
		})
	}
}

func TestTracker_HundredthOfDegreePerSecond(t *testing.T) {
	tr := NewTracker(origin, time.Second)
	tr.Record(Sample{Position: route.Position{}, Time: t0})
	tr.Record(Sample{Position: route.Position{Latitude: 0.01}, Time: t0.Add(time.Second)})
	// ~1.11 km in one second
	assert.InDelta(t, 4003, tr.CurrentSpeedKmh(), 5)
}

func TestTracker_TenMetersPerTick(t *testing.T) {
	tr := NewTracker(origin, 0)
	a := route.Position{Longitude: 0, Latitude: 0}
	// 0.01 km north of a
	b := route.Position{Longitude: 0, Latitude: 0.01 / 111.19508}
	tr.Record(Sample{Position: a})
	tr.Record(Sample{Position: b})
	assert.InDelta(t, 0.01*3600, tr.CurrentSpeedKmh(), 0.05)
}
