package lightgrpc

import "github.com/nichlor/lightcall/types"

// Transport-specific wrapper types for RPC methods whose interface
// signatures don't map to a single request/response struct.

// ExecutionProofResponse carries the storage proof for a remote call
// request. The result bytes are deliberately not included: a light
// client must recompute them from the proof rather than trust a
// peer's claim.
type ExecutionProofResponse struct {
	Proof types.StorageProof `cramberry:"1"`
}

// RuntimeVersionRequest asks for the runtime version at a block.
type RuntimeVersionRequest struct {
	Block types.BlockReference `cramberry:"1"`
}

// RuntimeVersionResponse wraps the reported version metadata.
type RuntimeVersionResponse struct {
	Version types.RuntimeVersionInfo `cramberry:"1"`
}
