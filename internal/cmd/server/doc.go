// Package serverrun exposes the Run entrypoint used by the CLI to start the
// nidsmon runtime with gRPC and HTTP servers, handling lifecycle and shutdown.
//
// Example:
//
//	opts := serverrun.Options{GRPCAddr: ":50051", HTTPAddr: ":5000", Config: config.Default()}
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	_ = serverrun.Run(ctx, opts)
package serverrun
