package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the control plane service
const ServiceName = "overmind.logistics.v1.LogisticsDaemon"

// Method names of the control plane
const (
	MethodStatus    = "Status"
	MethodStep      = "Step"
	MethodRetarget  = "Retarget"
	MethodPlanFleet = "PlanFleet"
	MethodHistory   = "History"
	MethodRunner    = "Runner"
	MethodPause     = "Pause"
	MethodResume    = "Resume"
)

// LogisticsDaemonServer is the server side of the control plane. Messages
// travel as structpb.Struct so the service needs no generated code; the
// payloads are the JSON forms of the request and reply types below.
type LogisticsDaemonServer interface {
	Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Step(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Retarget(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	PlanFleet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Runner(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Pause(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Resume(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv LogisticsDaemonServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(LogisticsDaemonServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(server, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the control plane for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LogisticsDaemonServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodStatus, LogisticsDaemonServer.Status),
		unaryHandler(MethodStep, LogisticsDaemonServer.Step),
		unaryHandler(MethodRetarget, LogisticsDaemonServer.Retarget),
		unaryHandler(MethodPlanFleet, LogisticsDaemonServer.PlanFleet),
		unaryHandler(MethodHistory, LogisticsDaemonServer.History),
		unaryHandler(MethodRunner, LogisticsDaemonServer.Runner),
		unaryHandler(MethodPause, LogisticsDaemonServer.Pause),
		unaryHandler(MethodResume, LogisticsDaemonServer.Resume),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "overmind/logistics/v1/daemon.proto",
}

// RegisterLogisticsDaemonServer registers the implementation on s
func RegisterLogisticsDaemonServer(s grpc.ServiceRegistrar, srv LogisticsDaemonServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// encode converts a request or reply value into its wire message
func encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return msg, nil
}

// decode fills v from a wire message
func decode(msg *structpb.Struct, v interface{}) error {
	if msg == nil {
		return nil
	}
	data, err := protojson.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
