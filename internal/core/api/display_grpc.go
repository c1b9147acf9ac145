package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// DisplayService messages are google.protobuf.Struct documents: requests
// follow the input.Request layout, responses the Decision layout. The
// descriptor below is what protoc-gen-go-grpc would emit for
//
//	service DisplayService {
//	  rpc Evaluate(google.protobuf.Struct) returns (google.protobuf.Struct);
//	}

const (
	ServiceName               = "displayrules.v1.DisplayService"
	DisplayEvaluateFullMethod = "/displayrules.v1.DisplayService/Evaluate"
)

// DisplayServer is the server API for DisplayService.
type DisplayServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterDisplayServer registers srv on s.
func RegisterDisplayServer(s grpc.ServiceRegistrar, srv DisplayServer) {
	s.RegisterService(&DisplayServiceDesc, srv)
}

func displayEvaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DisplayServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DisplayEvaluateFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DisplayServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// DisplayServiceDesc is the grpc.ServiceDesc for DisplayService.
var DisplayServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DisplayServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    displayEvaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "displayrules/v1/display.proto",
}

// DisplayClient is the client API for DisplayService.
type DisplayClient struct {
	cc grpc.ClientConnInterface
}

// NewDisplayClient returns a client using cc.
func NewDisplayClient(cc grpc.ClientConnInterface) *DisplayClient {
	return &DisplayClient{cc: cc}
}

// Evaluate sends a request document and returns the decision document.
func (c *DisplayClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DisplayEvaluateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
