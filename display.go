package railtracker

import (
	"time"

	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/utils"
)

// Display is the per-render payload for a rider-facing client.
type Display struct {
	Station     string               `json:"station"`
	Position    route.Position       `json:"position"`
	RemainingKM float64              `json:"remaining_km"`
	AbsoluteKM  float64              `json:"absolute_km"`
	ETASeconds  int64                `json:"eta_seconds"`
	SpeedKMH    float64              `json:"speed_kmh"`
	SpeedSource estimate.SpeedSource `json:"speed_source"`
	Sampled     bool                 `json:"sampled"`
	SampledAt   string               `json:"sampled_at,omitempty"`

	Remaining string `json:"remaining"`
	Absolute  string `json:"absolute"`
	ETA       string `json:"eta"`
	Speed     string `json:"speed"`
}

// NewDisplay formats m: two-decimal distances and speed, minutes/seconds ETA.
func NewDisplay(m estimate.Metrics) Display {
	d := Display{
		Station:     m.Target.Name,
		Position:    m.Position,
		RemainingKM: m.RemainingKM,
		AbsoluteKM:  m.AbsoluteKM,
		ETASeconds:  int64(m.ETA.Round(time.Second) / time.Second),
		SpeedKMH:    m.SpeedKMH,
		SpeedSource: m.SpeedSource,
		Sampled:     m.Sampled,
		Remaining:   utils.FormatKM(m.RemainingKM),
		Absolute:    utils.FormatKM(m.AbsoluteKM),
		ETA:         utils.FormatETA(m.ETA),
		Speed:       utils.FormatSpeed(m.SpeedKMH),
	}
	if !m.SampledAt.IsZero() {
		d.SampledAt = utils.Iso8601(m.SampledAt)
	}
	return d
}
