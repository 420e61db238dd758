package hashsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName      = "xdao.epcis.hashsvc.v1.EventHash"
	methodHash       = "/" + serviceName + "/Hash"
	methodPreHash    = "/" + serviceName + "/PreHash"
	methodGetPreHash = "/" + serviceName + "/Get"
)

// EventHashServer is the server API of the EventHash service.
//
// Messages are protobuf well-known wrappers: Hash and PreHash take the
// event as JSON text, Get takes an event hash. All three return text.
type EventHashServer interface {
	Hash(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	PreHash(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedEventHashServer can be embedded for forward compatibility.
type UnimplementedEventHashServer struct{}

func (UnimplementedEventHashServer) Hash(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Hash not implemented")
}
func (UnimplementedEventHashServer) PreHash(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method PreHash not implemented")
}
func (UnimplementedEventHashServer) Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}

// RegisterEventHashServer registers srv on s.
func RegisterEventHashServer(s grpc.ServiceRegistrar, srv EventHashServer) {
	s.RegisterService(&EventHash_ServiceDesc, srv)
}

// EventHashClient is the client API of the EventHash service.
type EventHashClient interface {
	Hash(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	PreHash(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type eventHashClient struct{ cc grpc.ClientConnInterface }

func NewEventHashClient(cc grpc.ClientConnInterface) EventHashClient {
	return &eventHashClient{cc: cc}
}

func (c *eventHashClient) invoke(ctx context.Context, method string, in *wrapperspb.StringValue, opts []grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *eventHashClient) Hash(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return c.invoke(ctx, methodHash, in, opts)
}

func (c *eventHashClient) PreHash(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return c.invoke(ctx, methodPreHash, in, opts)
}

func (c *eventHashClient) Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return c.invoke(ctx, methodGetPreHash, in, opts)
}

type unaryMethod func(EventHashServer, context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)

// handler adapts a server method to grpc.MethodDesc.
func handler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EventHashServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EventHashServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, h)
	}
}

// EventHash_ServiceDesc is the grpc.ServiceDesc for the EventHash service.
var EventHash_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EventHashServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Hash", Handler: handler(methodHash, EventHashServer.Hash)},
		{MethodName: "PreHash", Handler: handler(methodPreHash, EventHashServer.PreHash)},
		{MethodName: "Get", Handler: handler(methodGetPreHash, EventHashServer.Get)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventhash.proto",
}
