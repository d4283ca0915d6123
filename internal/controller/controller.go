package controller

import (
	"context"
	"sync"

	"github.com/google/uuid"

	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// State of the generator lifecycle.
type State string

const (
	StateStopped State = "STOPPED"
	StateRunning State = "RUNNING"
)

// Status is the acknowledgement returned by Start and Stop.
type Status struct {
	Status string `json:"status"`
}

var (
	started = Status{Status: "started"}
	stopped = Status{Status: "stopped"}
)

// Runner is the task body. Run must return promptly once ctx is done.
type Runner interface {
	Run(ctx context.Context, runID string)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, runID string)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, runID string) { f(ctx, runID) }

// Controller serializes Start/Stop under one mutex.
type Controller struct {
	runner Runner
	logger logpkg.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	runID  string
}

// New returns a stopped Controller driving runner.
func New(runner Runner, logger logpkg.Logger) *Controller {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Controller{runner: runner, logger: logger, state: StateStopped}
}

// Start spawns the task when stopped; otherwise it is a no-op.
func (c *Controller) Start() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		return started
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	runID := uuid.NewString()
	c.state, c.cancel, c.done, c.runID = StateRunning, cancel, done, runID

	go func() {
		defer close(done)
		c.runner.Run(ctx, runID)
	}()
	c.logger.Info("monitoring started", logpkg.Str("run_id", runID))
	return started
}

// Stop cancels the running task without waiting for it; no-op when stopped.
func (c *Controller) Stop() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStopped {
		return stopped
	}
	c.cancel()
	c.state, c.cancel = StateStopped, nil
	c.logger.Info("monitoring stopped", logpkg.Str("run_id", c.runID))
	return stopped
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Running reports State() == StateRunning.
func (c *Controller) Running() bool { return c.State() == StateRunning }

// RunID returns the id of the current or most recent run ("" before the first Start).
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Shutdown stops the controller and waits for the last task to exit or ctx to end.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.Stop()
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
