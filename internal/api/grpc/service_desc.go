package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName = "perftester.v1.ReportService"

	methodRecords   = "Records"
	methodAggregate = "Aggregate"
	methodCompare   = "Compare"
)

// ReportServer is the server API of perftester.v1.ReportService. Requests are
// google.protobuf.Struct values with a "labels" field (list or comma separated
// string) and an optional "baseline"; responses are lists of row objects.
type ReportServer interface {
	Records(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	Aggregate(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	Compare(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

func unaryHandler(method string, call func(ReportServer, context.Context, *structpb.Struct) (*structpb.ListValue, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ReportServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ReportServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var reportServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ReportServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(methodRecords, ReportServer.Records),
		unaryHandler(methodAggregate, ReportServer.Aggregate),
		unaryHandler(methodCompare, ReportServer.Compare),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "perftester/v1/report.proto",
}

// RegisterReportServer registers srv on s.
func RegisterReportServer(s grpc.ServiceRegistrar, srv ReportServer) {
	s.RegisterService(&reportServiceDesc, srv)
}

// Client is a thin client for perftester.v1.ReportService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Records(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, methodRecords, req, opts...)
}

func (c *Client) Aggregate(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, methodAggregate, req, opts...)
}

func (c *Client) Compare(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, methodCompare, req, opts...)
}
