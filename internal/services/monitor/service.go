package monitorsvc

import (
	"context"
	"time"

	"github.com/rzbill/nidsmon/internal/controller"
	"github.com/rzbill/nidsmon/internal/event"
	"github.com/rzbill/nidsmon/internal/runtime"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// watchPoll bounds how long a watch sleeps before re-checking the log.
const watchPoll = 250 * time.Millisecond

// Service exposes the monitor operations. It never mutates the log.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// New returns a Service. A nil logger discards output.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Service{rt: rt, logger: logger}
}

// Start begins monitoring; idempotent.
func (s *Service) Start(ctx context.Context) controller.Status {
	return s.rt.Controller().Start()
}

// Stop halts monitoring; idempotent and non-blocking.
func (s *Service) Stop(ctx context.Context) controller.Status {
	return s.rt.Controller().Stop()
}

// Recent returns a snapshot of the log, oldest first.
func (s *Service) Recent(ctx context.Context) []event.Event {
	return s.rt.Log().Snapshot()
}

// Search filters a snapshot. A filter that does not compile is a *FilterError.
func (s *Service) Search(ctx context.Context, opts SearchOptions) ([]event.Event, error) {
	f, err := compileFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	snap := s.rt.Log().Snapshot()
	out := snap[:0]
	for _, ev := range snap {
		if opts.Severity != "" && ev.Severity != opts.Severity {
			continue
		}
		if !f.Eval(ev) {
			continue
		}
		out = append(out, ev)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[len(out)-opts.Limit:]
	}
	return out, nil
}

// Watch delivers events appended after the call (or the current window first
// when FromStart) to sink until ctx is done, the sink fails, or Limit events
// were delivered. Events evicted before the watcher reads them are skipped.
func (s *Service) Watch(ctx context.Context, opts WatchOptions, sink WatchSink) error {
	f, err := compileFilter(opts.Filter)
	if err != nil {
		return err
	}
	l := s.rt.Log()
	var cursor uint64
	if !opts.FromStart {
		cursor = l.LastSeq()
	}
	delivered := 0
	for {
		items := l.ReadAfter(cursor)
		sent := 0
		for _, it := range items {
			cursor = it.Seq
			if !f.Eval(it.Event) {
				continue
			}
			if err := sink.Send(it.Event); err != nil {
				return err
			}
			sent++
			delivered++
			if opts.Limit > 0 && delivered >= opts.Limit {
				return sink.Flush()
			}
		}
		if sent > 0 {
			if err := sink.Flush(); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		// Re-read without waiting if something landed since ReadAfter.
		if l.LastSeq() > cursor {
			continue
		}
		l.WaitForAppend(ctx, watchPoll)
	}
}

// Status reports the controller state and counts over the current window.
func (s *Service) Status(ctx context.Context) StatusInfo {
	ctrl := s.rt.Controller()
	l := s.rt.Log()
	snap := l.Snapshot()
	c := l.Counters()
	info := StatusInfo{
		Running:  ctrl.Running(),
		State:    string(ctrl.State()),
		RunID:    ctrl.RunID(),
		Length:   len(snap),
		Capacity: l.Capacity(),
		Appended: c.Appended,
		Evicted:  c.Evicted,
		LastSeq:  c.LastSeq,
	}
	for _, ev := range snap {
		if ev.IsAlert() {
			info.Alerts++
		} else {
			info.Infos++
		}
	}
	return info
}

// Display renders events as their display strings, preserving order.
func Display(events []event.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Text
	}
	return out
}

func compileFilter(expr string) (celFilter, error) {
	f, err := newCELFilter(expr)
	if err == nil {
		return f, nil
	}
	if fe, ok := err.(*FilterError); ok {
		return celFilter{}, fe
	}
	return celFilter{}, &FilterError{Expr: expr, Err: err}
}

// ValidateFilter reports whether expr compiles, as a *FilterError.
func ValidateFilter(expr string) error {
	_, err := compileFilter(expr)
	return err
}
