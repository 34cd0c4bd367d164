package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Requests are protobuf Structs and replies are UInt32Value codes, so the
// service needs no generated code.
//
//	And3, Or3, Xor3: {"a": code, "b": code, "category"?: string}
//	Not3:            {"a": code, "category"?: string}
//	Decide:          {"confidence": number, "delta": number, "category"?: string}
//	Resolve:         {"signal": number, "category"?: string}
const serviceName = "ternary.codec.v1.Codec"

// #region server-api
// CodecServiceServer is the server API for the Codec service.
type CodecServiceServer interface {
	And3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
	Or3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
	Xor3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
	Not3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
	Decide(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
	Resolve(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
}

// UnimplementedCodecServiceServer can be embedded for forward compatibility.
type UnimplementedCodecServiceServer struct{}

func (UnimplementedCodecServiceServer) And3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method And3 not implemented")
}
func (UnimplementedCodecServiceServer) Or3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Or3 not implemented")
}
func (UnimplementedCodecServiceServer) Xor3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Xor3 not implemented")
}
func (UnimplementedCodecServiceServer) Not3(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Not3 not implemented")
}
func (UnimplementedCodecServiceServer) Decide(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Decide not implemented")
}
func (UnimplementedCodecServiceServer) Resolve(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Resolve not implemented")
}

// RegisterCodecServiceServer registers the Codec service on a gRPC server.
func RegisterCodecServiceServer(s grpc.ServiceRegistrar, srv CodecServiceServer) {
	s.RegisterService(&Codec_ServiceDesc, srv)
}

// #endregion server-api

// #region client-api
// CodecServiceClient is the client API for the Codec service.
type CodecServiceClient interface {
	And3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error)
	Or3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error)
	Xor3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error)
	Not3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error)
	Decide(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error)
	Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error)
}

type codecServiceClient struct{ cc grpc.ClientConnInterface }

// NewCodecServiceClient returns a client stub over cc.
func NewCodecServiceClient(cc grpc.ClientConnInterface) CodecServiceClient {
	return &codecServiceClient{cc: cc}
}

func (c *codecServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	out := new(wrapperspb.UInt32Value)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *codecServiceClient) And3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return c.invoke(ctx, "And3", in, opts)
}

func (c *codecServiceClient) Or3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return c.invoke(ctx, "Or3", in, opts)
}

func (c *codecServiceClient) Xor3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return c.invoke(ctx, "Xor3", in, opts)
}

func (c *codecServiceClient) Not3(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return c.invoke(ctx, "Not3", in, opts)
}

func (c *codecServiceClient) Decide(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return c.invoke(ctx, "Decide", in, opts)
}

func (c *codecServiceClient) Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return c.invoke(ctx, "Resolve", in, opts)
}

// #endregion client-api

// #region service-desc
type unaryMethod func(CodecServiceServer, context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CodecServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CodecServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Codec_ServiceDesc is the grpc.ServiceDesc for the Codec service.
var Codec_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CodecServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("And3", CodecServiceServer.And3),
		unaryHandler("Or3", CodecServiceServer.Or3),
		unaryHandler("Xor3", CodecServiceServer.Xor3),
		unaryHandler("Not3", CodecServiceServer.Not3),
		unaryHandler("Decide", CodecServiceServer.Decide),
		unaryHandler("Resolve", CodecServiceServer.Resolve),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ternary/codec/v1/codec.proto",
}

// #endregion service-desc
