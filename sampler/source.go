package sampler

import (
	"context"
	"errors"

	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

// ErrNoFix means the source has nothing new this tick.
var ErrNoFix = errors.New("no position fix")

// Source yields the observer's current position.
type Source interface {
	Fetch(ctx context.Context) (tracking.Sample, error)
}
