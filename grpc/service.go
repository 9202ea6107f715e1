package lightgrpc

import (
	"context"
	"fmt"

	"github.com/nichlor/lightcall/types"

	"google.golang.org/grpc"
)

const serviceName = "github.com/nichlor/lightcall.v1.ProofService"

// ProofServiceServer is the server-side interface for the proof
// fetch service a full node exposes to light clients.
type ProofServiceServer interface {
	ExecutionProof(context.Context, *types.RemoteCallRequest) (*ExecutionProofResponse, error)
	RuntimeVersion(context.Context, *RuntimeVersionRequest) (*RuntimeVersionResponse, error)
}

// RegisterProofServiceServer registers the ProofServiceServer on a
// gRPC server.
func RegisterProofServiceServer(s *grpc.Server, srv ProofServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerExecutionProof(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RemoteCallRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ProofServiceServer).ExecutionProof(ctx, req)
}

func handlerRuntimeVersion(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(RuntimeVersionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ProofServiceServer).RuntimeVersion(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ProofServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ExecutionProof", Handler: handlerExecutionProof},
		{MethodName: "RuntimeVersion", Handler: handlerRuntimeVersion},
	},
	Metadata: "github.com/nichlor/lightcall/v1/service.cram",
}
