package transports

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	nidsmonv1 "github.com/rzbill/nidsmon/api/nidsmon/v1"
	"github.com/rzbill/nidsmon/internal/event"
)

// GrpcTransport implements MonitorTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

func (t *GrpcTransport) withClient(ctx context.Context, fn func(cli nidsmonv1.MonitorServiceClient) error) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(nidsmonv1.NewMonitorServiceClient(conn))
}

// Start asks the server to begin monitoring.
func (t *GrpcTransport) Start(ctx context.Context) (string, error) {
	var ack nidsmonv1.Ack
	err := t.withClient(ctx, func(cli nidsmonv1.MonitorServiceClient) error {
		res, err := cli.Start(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		return nidsmonv1.FromStruct(res, &ack)
	})
	return ack.Status, err
}

// Stop asks the server to halt monitoring.
func (t *GrpcTransport) Stop(ctx context.Context) (string, error) {
	var ack nidsmonv1.Ack
	err := t.withClient(ctx, func(cli nidsmonv1.MonitorServiceClient) error {
		res, err := cli.Stop(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		return nidsmonv1.FromStruct(res, &ack)
	})
	return ack.Status, err
}

// Status fetches the monitor status.
func (t *GrpcTransport) Status(ctx context.Context) (Status, error) {
	var st Status
	err := t.withClient(ctx, func(cli nidsmonv1.MonitorServiceClient) error {
		res, err := cli.Status(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		return nidsmonv1.FromStruct(res, &st)
	})
	return st, err
}

// Events returns the current window, filtered server-side.
func (t *GrpcTransport) Events(ctx context.Context, req EventsRequest) ([]event.Event, error) {
	var out nidsmonv1.RecentResponse
	err := t.withClient(ctx, func(cli nidsmonv1.MonitorServiceClient) error {
		in, err := nidsmonv1.ToStruct(nidsmonv1.RecentRequest{Filter: req.Filter, Severity: req.Severity, Limit: req.Limit})
		if err != nil {
			return err
		}
		res, err := cli.Recent(ctx, in)
		if err != nil {
			return err
		}
		return nidsmonv1.FromStruct(res, &out)
	})
	return out.Events, err
}

// Watch streams events and invokes onEvent for each one.
func (t *GrpcTransport) Watch(ctx context.Context, req WatchRequest, onEvent func(event.Event) error) error {
	return t.withClient(ctx, func(cli nidsmonv1.MonitorServiceClient) error {
		in, err := nidsmonv1.ToStruct(nidsmonv1.WatchRequest{Filter: req.Filter, From: req.From, Limit: req.Limit})
		if err != nil {
			return err
		}
		stream, err := cli.Watch(ctx, in)
		if err != nil {
			return err
		}
		for {
			m, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
					return nil
				}
				return err
			}
			var ev event.Event
			if err := nidsmonv1.FromStruct(m, &ev); err != nil {
				return err
			}
			if cbErr := onEvent(ev); cbErr != nil {
				return cbErr
			}
		}
	})
}
