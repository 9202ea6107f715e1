package lightgrpc

import (
	"context"
	"log"
	"net"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/light"
	"github.com/nichlor/lightcall/types"

	"google.golang.org/grpc"
)

// Compile-time interface check.
var _ ProofServiceServer = (*ProofServer)(nil)

// ProofServer exposes a full node's proof generation to remote light
// clients. It refuses requests for blocks whose full state the node
// does not hold, the same gate a local caller would hit.
type ProofServer struct {
	states lightcall.StateProvider
	avail  lightcall.StateAvailability
	exec   lightcall.CallExecutor
}

// NewProofServer creates a proof server over the given state
// provider, availability oracle and full-node executor.
func NewProofServer(states lightcall.StateProvider, avail lightcall.StateAvailability, exec lightcall.CallExecutor) *ProofServer {
	return &ProofServer{states: states, avail: avail, exec: exec}
}

// Register adds the proof service to a gRPC server.
func (s *ProofServer) Register(gs *grpc.Server) {
	RegisterProofServiceServer(gs, s)
}

// Serve starts a gRPC server on the given listener.
func (s *ProofServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// ExecutionProof generates the storage proof for a remote call
// request by executing it against the node's full state.
func (s *ProofServer) ExecutionProof(ctx context.Context, req *types.RemoteCallRequest) (*ExecutionProofResponse, error) {
	if !s.avail.IsLocalStateAvailable(req.Block) {
		return nil, &lightcall.NotAvailableError{Block: req.Block}
	}
	backend, err := s.states.StateAt(req.Block)
	if err != nil {
		return nil, err
	}
	_, proof, err := light.ProveExecution(ctx, backend, s.exec, req.Method, req.CallData)
	if err != nil {
		log.Printf("github.com/nichlor/lightcall grpc: proof generation for %s at %s failed: %v",
			req.Method, req.Block, err)
		return nil, err
	}
	return &ExecutionProofResponse{Proof: proof}, nil
}

// RuntimeVersion reports the runtime version at a block.
func (s *ProofServer) RuntimeVersion(ctx context.Context, req *RuntimeVersionRequest) (*RuntimeVersionResponse, error) {
	if !s.avail.IsLocalStateAvailable(req.Block) {
		return nil, &lightcall.NotAvailableError{Block: req.Block}
	}
	v, err := s.exec.RuntimeVersion(ctx, req.Block)
	if err != nil {
		return nil, err
	}
	return &RuntimeVersionResponse{Version: v}, nil
}
