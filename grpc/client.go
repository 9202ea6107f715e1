package lightgrpc

import (
	"context"
	"fmt"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/light"
	"github.com/nichlor/lightcall/types"

	"google.golang.org/grpc"
)

// Client fetches execution proofs from a remote full node and
// verifies them locally. The remote peer is never trusted with the
// result: Call recomputes it from the proof against the trusted
// state root carried by the request's header.
type Client struct {
	cc      *grpc.ClientConn
	exec    lightcall.CodeExecutor
	spawner lightcall.TaskSpawner
}

// Dial connects to a remote proof service. The code executor and
// spawner are used for local proof verification.
func Dial(ctx context.Context, addr string, exec lightcall.CodeExecutor, spawner lightcall.TaskSpawner,
	opts ...grpc.DialOption) (*Client, error) {

	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("lightcall client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc, exec: exec, spawner: spawner}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

// FetchExecutionProof retrieves the storage proof for a remote call
// request without verifying it.
func (c *Client) FetchExecutionProof(ctx context.Context, req types.RemoteCallRequest) (types.StorageProof, error) {
	resp := new(ExecutionProofResponse)
	if err := c.cc.Invoke(ctx, fullMethod("ExecutionProof"), &req, resp); err != nil {
		return types.StorageProof{}, err
	}
	return resp.Proof, nil
}

// Call fetches the proof for a remote call request and recomputes
// the result from it, returning bytes that are trustworthy given the
// request header's state root.
func (c *Client) Call(ctx context.Context, req types.RemoteCallRequest) ([]byte, error) {
	proof, err := c.FetchExecutionProof(ctx, req)
	if err != nil {
		return nil, err
	}
	return light.CheckExecutionProof(ctx, c.exec, c.spawner, req, proof)
}

// RuntimeVersion reports the remote node's view of the runtime
// version at a block. Unlike Call this is unverified peer data.
func (c *Client) RuntimeVersion(ctx context.Context, at types.BlockReference) (types.RuntimeVersionInfo, error) {
	req := &RuntimeVersionRequest{Block: at}
	resp := new(RuntimeVersionResponse)
	if err := c.cc.Invoke(ctx, fullMethod("RuntimeVersion"), req, resp); err != nil {
		return types.RuntimeVersionInfo{}, err
	}
	return resp.Version, nil
}
