package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	cfgpkg "github.com/rzbill/nidsmon/internal/config"
	"github.com/rzbill/nidsmon/internal/controller"
	"github.com/rzbill/nidsmon/internal/eventlog"
	"github.com/rzbill/nidsmon/internal/generator"
	pebblestore "github.com/rzbill/nidsmon/internal/storage/pebble"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// LogName is the key namespace of the shared event log.
const LogName = "events"

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// GeneratorOptions are forwarded to generator.New (tests inject rand/clock).
	GeneratorOptions []generator.Option
}

// Runtime wires storage, the event log, the generator and its controller for
// a single process.
type Runtime struct {
	db     *pebblestore.DB
	log    *eventlog.Log
	gen    *generator.Generator
	ctrl   *controller.Controller
	logger logpkg.Logger

	// mu guards db (nil once closed) and config.
	mu     sync.RWMutex
	config cfgpkg.Config
}

// Open initializes the in-memory store and the components on top of it.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	db, err := pebblestore.Open(pebblestore.Options{Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		return nil, err
	}
	l, err := eventlog.OpenLog(db, LogName, opts.Config.Capacity, logger.With(logpkg.Component("eventlog")))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	gen := generator.New(l, opts.Config.GeneratorConfig(), logger.With(logpkg.Component("generator")), opts.GeneratorOptions...)
	ctrl := controller.New(gen, logger.With(logpkg.Component("controller")))
	return &Runtime{db: db, log: l, gen: gen, ctrl: ctrl, config: opts.Config, logger: logger}, nil
}

// Close stops the generator, waits for it (bounded by ctx) and closes storage.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	db := r.db
	r.db = nil
	r.mu.Unlock()
	if db == nil {
		return nil
	}
	err := r.ctrl.Shutdown(ctx)
	if cerr := db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Reload applies a new configuration. Only generator parameters take effect;
// capacity is fixed for the lifetime of the log.
func (r *Runtime) Reload(cfg cfgpkg.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.Capacity != r.config.Capacity {
		r.logger.Warn("capacity change ignored until restart",
			logpkg.Int("current", r.config.Capacity), logpkg.Int("requested", cfg.Capacity))
		cfg.Capacity = r.config.Capacity
	}
	if err := r.gen.SetConfig(cfg.GeneratorConfig()); err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// Log returns the shared event log.
func (r *Runtime) Log() *eventlog.Log { return r.log }

// Generator returns the event generator.
func (r *Runtime) Generator() *generator.Generator { return r.gen }

// Controller returns the generator lifecycle controller.
func (r *Runtime) Controller() *controller.Controller { return r.ctrl }

// DB exposes the underlying DB (internal use only).
func (r *Runtime) DB() *pebblestore.DB {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db
}

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}
