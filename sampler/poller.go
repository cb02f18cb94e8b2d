package sampler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

// Poller calls a Source every interval and forwards good samples.
type Poller struct {
	source   Source
	interval time.Duration
	timeout  time.Duration
	out      chan tracking.Sample

	fetched int
	skipped int
}

// NewPoller returns a poller whose channel has room for a few samples so a
// slow consumer does not stall the timer.
func NewPoller(source Source, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = interval
	}
	return &Poller{
		source:   source,
		interval: interval,
		timeout:  timeout,
		out:      make(chan tracking.Sample, 4),
	}
}

// Samples is the channel consumed by the session.
func (p *Poller) Samples() <-chan tracking.Sample { return p.out }

// Run ticks until ctx is done, then closes the samples channel.
func (p *Poller) Run(ctx context.Context) error {
	defer close(p.out)
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("poller stopped: fetched=%d skipped=%d", p.fetched, p.skipped)
			return nil
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	sample, err := p.source.Fetch(cctx)
	if err != nil {
		p.skipped++
		if !errors.Is(err, ErrNoFix) {
			log.Printf("poll error: %v", err)
		}
		return
	}
	p.fetched++
	select {
	case p.out <- sample:
	case <-ctx.Done():
	}
}
