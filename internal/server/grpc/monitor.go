package grpcserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	nidsmonv1 "github.com/rzbill/nidsmon/api/nidsmon/v1"
	"github.com/rzbill/nidsmon/internal/event"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

type monitorSvc struct {
	nidsmonv1.UnimplementedMonitorServiceServer
	svc      *monitorsvc.Service
	logger   logpkg.Logger
	stopping <-chan struct{}
}

func (m *monitorSvc) Start(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(nidsmonv1.Ack{Status: m.svc.Start(ctx).Status})
}

func (m *monitorSvc) Stop(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(nidsmonv1.Ack{Status: m.svc.Stop(ctx).Status})
}

func (m *monitorSvc) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(m.svc.Status(ctx))
}

func (m *monitorSvc) Recent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req nidsmonv1.RecentRequest
	if err := nidsmonv1.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	opts := monitorsvc.SearchOptions{Filter: req.Filter, Limit: req.Limit}
	if req.Severity != "" {
		sev, err := event.ParseSeverity(req.Severity)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		opts.Severity = sev
	}
	evs, err := m.svc.Search(ctx, opts)
	if err != nil {
		return nil, m.toStatus(err)
	}
	return toStruct(nidsmonv1.RecentResponse{Events: evs})
}

type grpcSink struct {
	stream grpc.ServerStreamingServer[structpb.Struct]
}

func (g grpcSink) Send(ev event.Event) error {
	s, err := nidsmonv1.ToStruct(ev)
	if err != nil {
		return err
	}
	return g.stream.Send(s)
}
func (g grpcSink) Flush() error { return nil }

func (m *monitorSvc) Watch(in *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	var req nidsmonv1.WatchRequest
	if err := nidsmonv1.FromStruct(in, &req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	opts := monitorsvc.WatchOptions{
		Filter:    req.Filter,
		FromStart: strings.EqualFold(req.From, "earliest"),
		Limit:     req.Limit,
	}
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	go func() {
		select {
		case <-m.stopping:
			cancel()
		case <-ctx.Done():
		}
	}()
	if err := m.svc.Watch(ctx, opts, grpcSink{stream: stream}); err != nil {
		return m.toStatus(err)
	}
	return nil
}

func (m *monitorSvc) toStatus(err error) error {
	var fe *monitorsvc.FilterError
	if errors.As(err, &fe) {
		return status.Error(codes.InvalidArgument, fe.Error())
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	m.logger.Error("monitor rpc failed", logpkg.Err(err))
	return status.Error(codes.Internal, err.Error())
}

func toStruct(v any) (*structpb.Struct, error) {
	s, err := nidsmonv1.ToStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}
