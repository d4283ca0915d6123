package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/nidsmon/internal/config"
)

func fastConfig() cfgpkg.Config {
	cfg := cfgpkg.Default()
	cfg.Generator.MinIntervalMs = 1
	cfg.Generator.MaxIntervalMs = 2
	return cfg
}

func TestOpenCloseHealth(t *testing.T) {
	rt, err := Open(Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if !rt.DB().InMemory() {
		t.Fatalf("expected in-memory store")
	}
	if err := rt.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := rt.CheckHealth(context.Background()); err == nil {
		t.Fatalf("expected health error after close")
	}
	if err := rt.Close(context.Background()); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Capacity = 0
	if _, err := Open(Options{Config: cfg}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStartStopProducesEvents(t *testing.T) {
	rt, err := Open(Options{Config: fastConfig()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close(context.Background())

	if n := len(rt.Log().Snapshot()); n != 0 {
		t.Fatalf("expected empty log before start, got %d", n)
	}
	rt.Controller().Start()
	deadline := time.Now().Add(2 * time.Second)
	for rt.Log().Len() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d events", rt.Log().Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	rt.Controller().Stop()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rt.Controller().Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	n := rt.Log().Counters().Appended
	time.Sleep(20 * time.Millisecond)
	if rt.Log().Counters().Appended != n {
		t.Fatalf("events appended after stop")
	}
	for _, ev := range rt.Log().Snapshot() {
		if ev.RunID != rt.Controller().RunID() {
			t.Fatalf("event run id %q, controller %q", ev.RunID, rt.Controller().RunID())
		}
	}
}

func TestReload(t *testing.T) {
	rt, err := Open(Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close(context.Background())

	next := cfgpkg.Default()
	next.Capacity = 5
	next.Generator.AlertProbability = 1
	if err := rt.Reload(next); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if rt.Config().Capacity != 50 || rt.Log().Capacity() != 50 {
		t.Fatalf("capacity must not change at runtime")
	}
	if rt.Generator().Config().AlertProbability != 1 {
		t.Fatalf("generator config not applied")
	}
	bad := cfgpkg.Default()
	bad.Generator.MaxIntervalMs = 0
	if err := rt.Reload(bad); err == nil {
		t.Fatalf("expected error for invalid generator config")
	}
}

func TestCloseConcurrentWithHealthChecks(t *testing.T) {
	rt, err := Open(Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = rt.CheckHealth(context.Background())
				_ = rt.DB()
			}
		}()
	}
	if err := rt.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()
	if err := rt.CheckHealth(context.Background()); err == nil {
		t.Fatalf("expected health error after close")
	}
}

func TestRepeatedStartRunsOneProducer(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Capacity = 200
	cfg.Generator.MinIntervalMs = 10
	cfg.Generator.MaxIntervalMs = 10
	rt, err := Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close(context.Background())

	ctrl := rt.Controller()
	ctrl.Start()
	runID := ctrl.RunID()
	ctrl.Start()
	if ctrl.RunID() != runID {
		t.Fatalf("second start replaced the run: %q -> %q", runID, ctrl.RunID())
	}

	const window = 300 * time.Millisecond
	before := rt.Log().Counters().Appended
	time.Sleep(window)
	delta := rt.Log().Counters().Appended - before

	ctrl.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ctrl.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	// A single producer sleeping 10ms per cycle appends at most window/10ms+1.
	if maxOne := uint64(window/(10*time.Millisecond)) + 1; delta > maxOne {
		t.Fatalf("appended %d events in %s, more than one producer allows (%d)", delta, window, maxOne)
	}
	if delta == 0 {
		t.Fatalf("no events appended")
	}
	for _, ev := range rt.Log().Snapshot() {
		if ev.RunID != runID {
			t.Fatalf("event %s from run %q, want %q", ev.ID, ev.RunID, runID)
		}
	}
}
