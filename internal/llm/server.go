package llm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region server-interface
// InferenceServer is the server side of the sidecar protocol.
type InferenceServer interface {
	Generate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// #endregion server-interface

// #region service-desc
var inferenceServiceDesc = grpc.ServiceDesc{
	ServiceName: inferenceService,
	HandlerType: (*InferenceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InferenceServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InferenceServer).Generate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterInferenceServer exposes gen on s under the sidecar protocol.
func RegisterInferenceServer(s grpc.ServiceRegistrar, gen Generator) {
	s.RegisterService(&inferenceServiceDesc, &generatorServer{gen: gen})
}

// #endregion service-desc

// #region generator-server
type generatorServer struct {
	gen Generator
}

func (g *generatorServer) Generate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	model := fields["model"].GetStringValue()
	prompt := fields["prompt"].GetStringValue()
	if model == "" || prompt == "" {
		return nil, status.Error(codes.InvalidArgument, "model and prompt are required")
	}

	text, err := g.gen.Generate(ctx, model, prompt)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "generate: %v", err)
	}
	return structpb.NewStruct(map[string]any{"text": text})
}

// #endregion generator-server
