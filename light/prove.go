package light

import (
	"context"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// ProveExecution executes method with callData against the given
// full backend while recording every trie node touched, and returns
// the result bytes together with the storage proof. A light client
// holding only the backend's root can recompute the same result from
// the proof via CheckExecutionProof.
//
// The backend must expose a trie view; handing in an
// already-restricted backend fails with ErrUnableToGenerateProof.
// Execution errors propagate unchanged and the partial proof is
// discarded: no result is ever returned without its proof.
func ProveExecution(ctx context.Context, backend state.Backend, exec lightcall.CallExecutor,
	method string, callData []byte) ([]byte, types.StorageProof, error) {

	view, ok := backend.AsTrieView()
	if !ok {
		return nil, types.StorageProof{}, lightcall.ErrUnableToGenerateProof
	}

	changes := state.NewOverlayedChanges()
	return exec.ProveAtTrieState(ctx, view, changes, method, callData)
}
