// Package validationv1 describes the ilrkeeper.validation.v1 gRPC service.
//
// Messages are google.protobuf.Struct values so the JSON rendering of a
// submission travels unchanged; the service descriptor is written by hand in
// the shape protoc-gen-go-grpc emits.
package validationv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "ilrkeeper.validation.v1.ValidationAPI"

	ValidationAPI_ValidateSubmission_FullMethodName = "/" + ServiceName + "/ValidateSubmission"
	ValidationAPI_ListRules_FullMethodName          = "/" + ServiceName + "/ListRules"
)

// ValidationAPIClient is the client API for ValidationAPI.
type ValidationAPIClient interface {
	// ValidateSubmission validates one submission and returns its report.
	ValidateSubmission(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	// ListRules returns the rules a submission is checked against.
	ListRules(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type validationAPIClient struct {
	cc grpc.ClientConnInterface
}

// NewValidationAPIClient returns a client over cc.
func NewValidationAPIClient(cc grpc.ClientConnInterface) ValidationAPIClient {
	return &validationAPIClient{cc}
}

func (c *validationAPIClient) ValidateSubmission(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ValidationAPI_ValidateSubmission_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *validationAPIClient) ListRules(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ValidationAPI_ListRules_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidationAPIServer is the server API for ValidationAPI.
// Implementations must embed UnimplementedValidationAPIServer.
type ValidationAPIServer interface {
	ValidateSubmission(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRules(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedValidationAPIServer()
}

// UnimplementedValidationAPIServer returns Unimplemented for every method.
type UnimplementedValidationAPIServer struct{}

func (UnimplementedValidationAPIServer) ValidateSubmission(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ValidateSubmission not implemented")
}

func (UnimplementedValidationAPIServer) ListRules(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRules not implemented")
}

func (UnimplementedValidationAPIServer) mustEmbedUnimplementedValidationAPIServer() {}

// RegisterValidationAPIServer registers srv with s.
func RegisterValidationAPIServer(s grpc.ServiceRegistrar, srv ValidationAPIServer) {
	s.RegisterService(&ValidationAPI_ServiceDesc, srv)
}

func _ValidationAPI_ValidateSubmission_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ValidationAPIServer).ValidateSubmission(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ValidationAPI_ValidateSubmission_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ValidationAPIServer).ValidateSubmission(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _ValidationAPI_ListRules_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ValidationAPIServer).ListRules(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ValidationAPI_ListRules_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ValidationAPIServer).ListRules(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ValidationAPI_ServiceDesc is the grpc.ServiceDesc for ValidationAPI.
var ValidationAPI_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ValidationAPIServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateSubmission",
			Handler:    _ValidationAPI_ValidateSubmission_Handler,
		},
		{
			MethodName: "ListRules",
			Handler:    _ValidationAPI_ListRules_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ilrkeeper/validation/v1/validation_api.proto",
}
