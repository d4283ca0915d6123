// Package grpcserver hosts the gRPC server for nidsmon, registering
// nidsmon.v1.MonitorService and the standard grpc.health.v1 service and
// delegating to the monitor service layer.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := grpcserver.New(rt, monitorsvc.New(rt, logger), logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
