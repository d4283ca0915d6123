package grpcserver

import (
	"context"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	nidsmonv1 "github.com/rzbill/nidsmon/api/nidsmon/v1"
	"github.com/rzbill/nidsmon/internal/runtime"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	grpc   *grpc.Server
	health *healthReporter
	lis    net.Listener
	logger logpkg.Logger

	// stopping is closed when shutdown begins so open watch streams end.
	stopping chan struct{}
	stopOnce sync.Once
}

// stopTimeout bounds GracefulStop before in-flight RPCs are cut.
const stopTimeout = 5 * time.Second

// New constructs a gRPC server and registers MonitorService and grpc.health.v1.
func New(rt *runtime.Runtime, svc *monitorsvc.Service, logger logpkg.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	s := &Server{rt: rt, grpc: grpc.NewServer(opts...), logger: logger, stopping: make(chan struct{})}
	s.health = newHealthReporter(rt, logger)
	healthpb.RegisterHealthServer(s.grpc, s.health.srv)
	nidsmonv1.RegisterMonitorServiceServer(s.grpc, &monitorSvc{svc: svc, logger: logger, stopping: s.stopping})
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.lis = l
	s.logger.Info("grpc listening", logpkg.Str("addr", l.Addr().String()))
	hctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.health.run(hctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.stop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound address once serving.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.stop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// stop ends watch streams, then stops gracefully, forcing the stop when
// RPCs are still running after stopTimeout.
func (s *Server) stop() {
	s.stopOnce.Do(func() { close(s.stopping) })
	s.health.shutdown()
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	t := time.NewTimer(stopTimeout)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		s.logger.Warn("graceful stop timed out; closing open RPCs")
		s.grpc.Stop()
		<-done
	}
}
