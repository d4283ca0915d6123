package nidsmonv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "nidsmon.v1.MonitorService"

const (
	MonitorService_Start_FullMethodName  = "/nidsmon.v1.MonitorService/Start"
	MonitorService_Stop_FullMethodName   = "/nidsmon.v1.MonitorService/Stop"
	MonitorService_Status_FullMethodName = "/nidsmon.v1.MonitorService/Status"
	MonitorService_Recent_FullMethodName = "/nidsmon.v1.MonitorService/Recent"
	MonitorService_Watch_FullMethodName  = "/nidsmon.v1.MonitorService/Watch"
)

// MonitorServiceClient is the client API for MonitorService.
type MonitorServiceClient interface {
	Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Recent(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
}

type monitorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMonitorServiceClient(cc grpc.ClientConnInterface) MonitorServiceClient {
	return &monitorServiceClient{cc}
}

func (c *monitorServiceClient) Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MonitorService_Start_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *monitorServiceClient) Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MonitorService_Stop_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *monitorServiceClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MonitorService_Status_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *monitorServiceClient) Recent(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MonitorService_Recent_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *monitorServiceClient) Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &MonitorService_ServiceDesc.Streams[0], MonitorService_Watch_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// MonitorServiceServer is the server API for MonitorService. Embed
// UnimplementedMonitorServiceServer for forward compatibility.
type MonitorServiceServer interface {
	Start(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Stop(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Recent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Watch(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

// UnimplementedMonitorServiceServer returns Unimplemented for every method.
type UnimplementedMonitorServiceServer struct{}

func (UnimplementedMonitorServiceServer) Start(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Start not implemented")
}
func (UnimplementedMonitorServiceServer) Stop(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Stop not implemented")
}
func (UnimplementedMonitorServiceServer) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Status not implemented")
}
func (UnimplementedMonitorServiceServer) Recent(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Recent not implemented")
}
func (UnimplementedMonitorServiceServer) Watch(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}

func RegisterMonitorServiceServer(s grpc.ServiceRegistrar, srv MonitorServiceServer) {
	s.RegisterService(&MonitorService_ServiceDesc, srv)
}

func _MonitorService_Start_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MonitorServiceServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MonitorService_Start_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MonitorServiceServer).Start(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _MonitorService_Stop_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MonitorServiceServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MonitorService_Stop_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MonitorServiceServer).Stop(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _MonitorService_Status_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MonitorServiceServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MonitorService_Status_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MonitorServiceServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _MonitorService_Recent_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MonitorServiceServer).Recent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MonitorService_Recent_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MonitorServiceServer).Recent(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _MonitorService_Watch_Handler(srv any, stream grpc.ServerStream) error {
	m := new(structpb.Struct)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MonitorServiceServer).Watch(m, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// MonitorService_ServiceDesc is the grpc.ServiceDesc for MonitorService.
var MonitorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MonitorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Start", Handler: _MonitorService_Start_Handler},
		{MethodName: "Stop", Handler: _MonitorService_Stop_Handler},
		{MethodName: "Status", Handler: _MonitorService_Status_Handler},
		{MethodName: "Recent", Handler: _MonitorService_Recent_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: _MonitorService_Watch_Handler, ServerStreams: true},
	},
	Metadata: "nidsmon/v1/monitor.proto",
}
