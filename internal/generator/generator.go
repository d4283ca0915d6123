package generator

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/rzbill/nidsmon/internal/event"
	"github.com/rzbill/nidsmon/pkg/id"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// Sink receives generated events. *eventlog.Log satisfies it.
type Sink interface {
	Append(ev event.Event) uint64
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRand replaces the random source. The Generator serializes access to it.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rnd = r }
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator is safe for concurrent use; several Runs may share one Generator,
// though the controller never starts more than one.
type Generator struct {
	sink   Sink
	logger logpkg.Logger
	ids    *id.Generator
	now    func() time.Time

	mu  sync.Mutex
	cfg Config
	rnd *rand.Rand
}

// New returns a Generator appending to sink. An invalid cfg falls back to
// DefaultConfig.
func New(sink Sink, cfg Config, logger logpkg.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("invalid generator config, using defaults", logpkg.Err(err))
		cfg = DefaultConfig()
	}
	g := &Generator{
		sink:   sink,
		logger: logger,
		ids:    id.NewGenerator(),
		now:    time.Now,
		cfg:    cfg,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Config returns the active configuration.
func (g *Generator) Config() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// SetConfig swaps the configuration; running loops pick it up on their next
// cycle.
func (g *Generator) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	g.cfg = cfg
	g.mu.Unlock()
	return nil
}

// Run emits events until ctx is cancelled. runID is stamped on every event.
func (g *Generator) Run(ctx context.Context, runID string) {
	g.logger.Info("generator started", logpkg.Str("run_id", runID))
	defer g.logger.Info("generator stopped", logpkg.Str("run_id", runID))
	for {
		if ctx.Err() != nil {
			return
		}
		if !sleepCtx(ctx, g.nextDelay()) {
			return
		}
		ev := g.Next(runID)
		seq := g.sink.Append(ev)
		g.logger.Debug("event generated",
			logpkg.Uint64("seq", seq),
			logpkg.Str("severity", string(ev.Severity)),
			logpkg.Str("source", ev.SourceAddress))
	}
}

// Next builds one classified event without sleeping or appending.
func (g *Generator) Next(runID string) event.Event {
	g.mu.Lock()
	cfg := g.cfg
	sev := event.SeverityInfo
	if g.rnd.Float64() < cfg.AlertProbability {
		sev = event.SeverityAlert
	}
	host := cfg.HostMin + g.rnd.Intn(cfg.HostMax-cfg.HostMin+1)
	g.mu.Unlock()

	source := cfg.SubnetPrefix + strconv.Itoa(host)
	return event.New(g.ids.Next().String(), runID, g.now(), sev, source)
}

// nextDelay draws uniformly from [MinInterval, MaxInterval].
func (g *Generator) nextDelay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	span := g.cfg.MaxInterval - g.cfg.MinInterval
	if span <= 0 {
		return g.cfg.MinInterval
	}
	return g.cfg.MinInterval + time.Duration(g.rnd.Int63n(int64(span)+1))
}

// sleepCtx waits for d or ctx, reporting false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
