package serverrun

import (
	"context"
	"errors"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/rzbill/nidsmon/internal/config"
	"github.com/rzbill/nidsmon/internal/runtime"
	grpcserver "github.com/rzbill/nidsmon/internal/server/grpc"
	httpserver "github.com/rzbill/nidsmon/internal/server/http"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// shutdownTimeout bounds how long Run waits for the generator task on exit.
const shutdownTimeout = 5 * time.Second

type Options struct {
	GRPCAddr string
	HTTPAddr string
	// GRPCListener and HTTPListener, when set, take precedence over the
	// addresses.
	GRPCListener net.Listener
	HTTPListener net.Listener
	// ConfigPath enables hot reload of generator parameters when non-empty.
	ConfigPath string
	Config     cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
	// Ready is called once both servers are about to accept connections.
	Ready func()
}

// Run starts the gRPC and HTTP servers over one runtime and blocks until ctx
// is cancelled or a server fails.
func Run(ctx context.Context, opts Options) error {
	if err := opts.Config.Validate(); err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		l, err := logpkg.ApplyConfig(&opts.Config.Log)
		if err != nil {
			return err
		}
		logger = l
	}
	// Pebble and grpc internals log through the stdlib logger.
	logpkg.RedirectStdLog(logger)

	logger.Info("Starting nidsmon server",
		logpkg.Str("grpc", listenAddr(opts.GRPCListener, opts.GRPCAddr)),
		logpkg.Str("http", listenAddr(opts.HTTPListener, opts.HTTPAddr)),
		logpkg.Int("capacity", opts.Config.Capacity),
		logpkg.Bool("autostart", opts.Config.Autostart),
		logpkg.Str("config", opts.ConfigPath),
	)

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.Close(cctx); err != nil {
			logger.Warn("runtime close", logpkg.Err(err))
		}
	}()

	svc := monitorsvc.New(rt, logger.With(logpkg.Component("monitor")))
	gsrv := grpcserver.New(rt, svc, logger.With(logpkg.Component("grpc")))
	hsrv := httpserver.New(rt, svc, logger.With(logpkg.Component("http")))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if opts.GRPCListener != nil {
			return gsrv.Serve(gctx, opts.GRPCListener)
		}
		return gsrv.ListenAndServe(gctx, opts.GRPCAddr)
	})
	g.Go(func() error {
		if opts.HTTPListener != nil {
			return hsrv.Serve(gctx, opts.HTTPListener)
		}
		return hsrv.ListenAndServe(gctx, opts.HTTPAddr)
	})
	if opts.ConfigPath != "" {
		g.Go(func() error {
			err := cfgpkg.Watch(gctx, opts.ConfigPath, logger.With(logpkg.Component("config")), func(c cfgpkg.Config) {
				if err := rt.Reload(c); err != nil {
					logger.Warn("config reload rejected", logpkg.Err(err))
					return
				}
				logger.Info("config reloaded", logpkg.Str("path", opts.ConfigPath))
			})
			if err != nil && gctx.Err() == nil {
				// A missing watch is not fatal for serving.
				logger.Warn("config watch stopped", logpkg.Err(err))
			}
			return nil
		})
	}

	if opts.Config.Autostart {
		rt.Controller().Start()
	}
	if opts.Ready != nil {
		opts.Ready()
	}

	err = g.Wait()
	gsrv.Close()
	hsrv.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("nidsmon server stopped")
	return nil
}

func listenAddr(l net.Listener, addr string) string {
	if l != nil {
		return l.Addr().String()
	}
	return addr
}
