package light

import (
	"context"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// CheckExecutionProof recomputes the result of a remote call from a
// storage proof, trusting only the state root declared by the
// request's header. It reconstructs a proof-restricted backend at
// that root, resolves the runtime code from it, and re-executes the
// call exactly as a full node would, letting every untouched read
// fall through to the restricted backend.
//
// Given a sufficient proof the returned bytes equal those produced by
// ProveExecution for the same (root, method, call data). Any state
// read the proof does not cover fails the execution rather than
// defaulting to an empty value, so a tampered or truncated proof
// yields an error, never a silently different result.
func CheckExecutionProof(ctx context.Context, exec lightcall.CodeExecutor, spawner lightcall.TaskSpawner,
	request types.RemoteCallRequest, proof types.StorageProof) ([]byte, error) {

	root := request.Header.StateRoot

	backend, err := state.NewProofCheckBackend(root, proof)
	if err != nil {
		return nil, &lightcall.ProofError{Root: root, Cause: err}
	}

	// The runtime code is state like any other key; a proof that
	// omits it cannot support execution at all.
	code, err := state.RuntimeCode(backend)
	if err != nil {
		return nil, lightcall.ErrRuntimeCodeMissing
	}

	changes := state.NewOverlayedChanges()
	ext := state.NewExternalities(changes, backend)

	result, err := exec.Call(ctx, code, request.Method, request.CallData, ext, spawner)
	if err != nil {
		return nil, &lightcall.ExecutionError{Method: request.Method, Cause: err}
	}
	return result, nil
}
