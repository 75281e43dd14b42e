package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/shantanuraj/roulette/internal/metrics"
)

// Outcome is the result of one refresh cycle.
type Outcome int

const (
	Unchanged Outcome = iota
	Replaced
	FetchFailed
	ParseRejected
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Replaced:
		return "replaced"
	case FetchFailed:
		return "fetch_failed"
	case ParseRejected:
		return "parse_rejected"
	default:
		return "unknown"
	}
}

// Fetcher returns the latest raw mapping text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Target is the store being refreshed.
type Target interface {
	SwapIfChanged(raw string) (bool, error)
	Len() int
}

// Apply offers raw to target and reports what happened. src labels the log
// line and metric ("sync", "watch").
func Apply(target Target, m *metrics.Metrics, src, raw string) Outcome {
	swapped, err := target.SwapIfChanged(raw)
	var out Outcome
	switch {
	case err != nil:
		out = ParseRejected
		slog.Warn("refresh: rejected image map, keeping current", "source", src, "err", err)
	case swapped:
		out = Replaced
		slog.Info("refresh: synced image map", "source", src, "images", target.Len())
	default:
		out = Unchanged
		slog.Debug("refresh: image map unchanged", "source", src)
	}
	m.ObserveRefresh(src, out.String())
	return out
}

// Poller periodically fetches the mapping and swaps it into a Target.
type Poller struct {
	fetcher  Fetcher
	target   Target
	interval time.Duration
	metrics  *metrics.Metrics
}

// New creates a Poller. m may be nil.
func New(f Fetcher, target Target, interval time.Duration, m *metrics.Metrics) *Poller {
	return &Poller{
		fetcher:  f,
		target:   target,
		interval: interval,
		metrics:  m,
	}
}

// Tick runs one fetch-and-swap cycle.
func (p *Poller) Tick(ctx context.Context) Outcome {
	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		slog.Warn("refresh: sync failed", "err", err)
		p.metrics.ObserveRefresh("sync", FetchFailed.String())
		return FetchFailed
	}
	return Apply(p.target, p.metrics, "sync", raw)
}

// Run ticks immediately and then once per interval, measured from the end
// of the previous tick. It blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.Tick(ctx)
			timer.Reset(p.interval)
		}
	}
}
