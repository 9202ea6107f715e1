// Package lightcall defines verifiable remote call execution: the
// boundary letting a light node obtain the result of a runtime call
// against a block's state it does not hold, while detecting tampering.
//
// The core [CallExecutor] interface is implemented by two variants:
// a full-node executor operating on locally materialized state
// (package local) and a gated executor that fails closed whenever the
// target block's state is not held locally (package light). Proof
// generation and verification live in package light as free
// functions.
package lightcall

import (
	"context"

	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// NativeCall is an optional closure executing the call natively,
// bypassing the on-chain bytecode. It is only consulted when the
// resolved execution policy prefers native execution.
type NativeCall func() ([]byte, error)

// CallExecutor executes runtime calls against block state.
//
// Concrete variants are selected at construction, never by runtime
// type inspection: callers hold a CallExecutor and do not know
// whether it is gated.
type CallExecutor interface {
	// Call executes method with callData against the state of the
	// block identified by at. The strategy expresses the caller's
	// native/bytecode preference; gated variants forward it verbatim
	// when state is local and never use it to decide availability.
	Call(ctx context.Context, at types.BlockReference, method string, callData []byte,
		strategy types.ExecutionStrategy, extensions types.Extensions) ([]byte, error)

	// ContextualCall executes method with an explicit, caller-owned
	// write buffer and a resolved execution-manager policy. When
	// recorder is non-nil, every state read is recorded into it.
	// The overlay is never the source of truth for untouched keys.
	ContextualCall(ctx context.Context, at types.BlockReference, method string, callData []byte,
		changes *state.OverlayedChanges, manager types.ExecutionManager,
		nativeCall NativeCall, recorder *state.ProofRecorder,
		extensions types.Extensions) ([]byte, error)

	// RuntimeVersion returns the version metadata implied by the
	// runtime code in the given block's state.
	RuntimeVersion(ctx context.Context, at types.BlockReference) (types.RuntimeVersionInfo, error)

	// ProveAtTrieState executes method against the given full trie
	// view, recording every trie node read, and returns the result
	// together with the accumulated storage proof. The two are
	// produced atomically: no partial result without its proof.
	ProveAtTrieState(ctx context.Context, view *state.TrieView, changes *state.OverlayedChanges,
		method string, callData []byte) ([]byte, types.StorageProof, error)

	// NativeRuntimeVersion reports the version of an embedded native
	// runtime, or nil when this executor carries none.
	NativeRuntimeVersion() *types.RuntimeVersionInfo
}

// CodeExecutor runs runtime code against externalities. It is the
// interpreter collaborator: this module orchestrates it but never
// implements method dispatch itself. Implementations must be safe
// for concurrent use from multiple goroutines.
type CodeExecutor interface {
	// Call executes method of the given runtime code, reading and
	// writing state exclusively through ext. The spawner may be used
	// for auxiliary background work; results never depend on it.
	Call(ctx context.Context, code []byte, method string, callData []byte,
		ext state.Externalities, spawner TaskSpawner) ([]byte, error)

	// RuntimeVersion extracts version metadata from a code blob.
	RuntimeVersion(code []byte) (types.RuntimeVersionInfo, error)
}

// StateAvailability answers whether a block's full state is held
// locally. The answer can change over time as blocks are imported or
// pruned, so it is re-queried on every call and never cached.
type StateAvailability interface {
	IsLocalStateAvailable(at types.BlockReference) bool
}

// StateProvider resolves a block reference to its state backend.
type StateProvider interface {
	StateAt(at types.BlockReference) (state.Backend, error)
}

// TaskSpawner accepts named background work items with
// fire-and-forget semantics.
type TaskSpawner interface {
	SpawnNamed(name string, task func())
}

// SpawnGo is the default TaskSpawner, running each task on its own
// goroutine.
type SpawnGo struct{}

func (SpawnGo) SpawnNamed(_ string, task func()) { go task() }
