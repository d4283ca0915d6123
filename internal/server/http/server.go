package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rzbill/nidsmon/internal/runtime"
	"github.com/rzbill/nidsmon/internal/server/http/controllers"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// Server owns the HTTP listener and routes.
type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger

	// cancelBase ends every request context, so SSE streams finish on shutdown.
	cancelBase context.CancelFunc
}

// New builds the server and registers every controller.
func New(rt *runtime.Runtime, svc *monitorsvc.Service, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, svc, logger).RegisterAllRoutes(mux)
	base, cancel := context.WithCancel(context.Background())
	s := &Server{rt: rt, logger: logger, cancelBase: cancel}
	s.srv = &http.Server{
		Handler:           cors(s.logRequests(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logpkg.ToStdLogger(logger, logpkg.WarnLevel),
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	return s
}

// Handler returns the root handler (used by tests and embedding).
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Addr returns the bound address once listening.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		s.cancelBase()
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) Close() {
	s.cancelBase()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			logpkg.Str("method", r.Method),
			logpkg.Str("path", r.URL.Path),
			logpkg.Int("status", rec.status),
			logpkg.Dur("dur", time.Since(start)))
	})
}
