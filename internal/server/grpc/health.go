package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	nidsmonv1 "github.com/rzbill/nidsmon/api/nidsmon/v1"
	"github.com/rzbill/nidsmon/internal/runtime"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

const healthInterval = 5 * time.Second

// healthReporter mirrors runtime health into the standard health service,
// both for the server as a whole ("") and for MonitorService.
type healthReporter struct {
	rt     *runtime.Runtime
	srv    *health.Server
	logger logpkg.Logger
}

func newHealthReporter(rt *runtime.Runtime, logger logpkg.Logger) *healthReporter {
	h := &healthReporter{rt: rt, srv: health.NewServer(), logger: logger}
	h.check(context.Background())
	return h
}

func (h *healthReporter) check(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if err := h.rt.CheckHealth(ctx); err != nil {
		h.logger.Warn("health check failed", logpkg.Err(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(nidsmonv1.ServiceName, st)
}

func (h *healthReporter) run(ctx context.Context) {
	t := time.NewTicker(healthInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			h.check(ctx)
		}
	}
}

// shutdown flips every service to NOT_SERVING; later updates are ignored.
func (h *healthReporter) shutdown() { h.srv.Shutdown() }
