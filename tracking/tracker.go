package tracking

import (
	"time"

	"github.com/theoremus-urban-solutions/railtracker/route"
)

// State tags whether any real sample has been recorded yet.
type State int

const (
	Unsampled State = iota
	Sampled
)

func (s State) String() string {
	if s == Sampled {
		return "sampled"
	}
	return "unsampled"
}

// Sample is one observed position. Time may be zero when the source has no
// clock; the nominal interval is then assumed.
type Sample struct {
	Position route.Position `json:"position"`
	Time     time.Time      `json:"time"`
}

// Tracker holds a two-sample window. It is not safe for concurrent use; the
// owning session serializes access.
type Tracker struct {
	origin   route.Position
	interval time.Duration
	state    State
	previous Sample
	current  Sample
	count    uint64
}

// NewTracker returns an Unsampled tracker. origin is reported as the current
// position until the first sample; interval is the nominal sampling cadence.
func NewTracker(origin route.Position, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Tracker{origin: origin, interval: interval}
}

// Record shifts current into previous and stores next as current.
func (t *Tracker) Record(next Sample) {
	if t.state == Unsampled {
		t.previous = next
		t.state = Sampled
	} else {
		t.previous = t.current
	}
	t.current = next
	t.count++
}

func (t *Tracker) State() State { return t.state }

// Samples returns how many samples were recorded.
func (t *Tracker) Samples() uint64 { return t.count }

// Current returns the latest position, or the origin while unsampled.
func (t *Tracker) Current() route.Position {
	if t.state == Unsampled {
		return t.origin
	}
	return t.current.Position
}

// Previous returns the sample before Current, or the origin while unsampled.
func (t *Tracker) Previous() route.Position {
	if t.state == Unsampled {
		return t.origin
	}
	return t.previous.Position
}

// LastSampleTime is the timestamp of the latest sample, zero if none.
func (t *Tracker) LastSampleTime() time.Time { return t.current.Time }

// Elapsed returns the time between the two samples. Missing or
// non-increasing timestamps yield the nominal interval.
func (t *Tracker) Elapsed() time.Duration {
	if t.previous.Time.IsZero() || t.current.Time.IsZero() {
		return t.interval
	}
	d := t.current.Time.Sub(t.previous.Time)
	if d <= 0 {
		return t.interval
	}
	return d
}

// CurrentSpeedKmh is distance over elapsed time between the two samples.
func (t *Tracker) CurrentSpeedKmh() float64 {
	if t.state == Unsampled || t.count < 2 {
		return 0
	}
	if t.previous.Position == t.current.Position {
		return 0
	}
	km := route.StraightLineDistance(t.current.Position, t.previous.Position)
	return km / t.Elapsed().Hours()
}
