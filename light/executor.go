// Package light implements the light-client side of verifiable
// remote call execution: a gated call executor that refuses calls
// for blocks whose full state is not held locally, proof generation
// on behalf of remote light clients, and proof verification.
package light

import (
	"context"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// Compile-time interface check.
var _ lightcall.CallExecutor = (*Executor)(nil)

// Executor gates a delegate call executor behind a state-availability
// oracle. A call is routed to the delegate only when the target
// block's full state is available locally; otherwise it fails with
// NotAvailableError without touching the delegate. There is no
// unsound partial fallback.
//
// Availability is re-queried on every operation: it changes over time
// as blocks are imported and pruned, so nothing is cached.
type Executor struct {
	avail StateAvailability
	local lightcall.CallExecutor
}

// StateAvailability is re-exported for constructor ergonomics.
type StateAvailability = lightcall.StateAvailability

// NewExecutor creates a gated executor over the given availability
// oracle and delegate.
func NewExecutor(avail StateAvailability, local lightcall.CallExecutor) *Executor {
	return &Executor{avail: avail, local: local}
}

// Call delegates verbatim when state for at is locally available
// (arguments, result and any delegate error pass through unmodified)
// and fails with NotAvailableError otherwise. The strategy is
// forwarded but never used to decide availability.
func (e *Executor) Call(ctx context.Context, at types.BlockReference, method string, callData []byte,
	strategy types.ExecutionStrategy, extensions types.Extensions) ([]byte, error) {

	if !e.avail.IsLocalStateAvailable(at) {
		return nil, &lightcall.NotAvailableError{Block: at}
	}
	return e.local.Call(ctx, at, method, callData, strategy, extensions)
}

// ContextualCall applies the same availability gate. When state is
// local it delegates, but forces the execution-manager policy to
// ManagerNativeWhenPossible regardless of the caller-supplied value:
// on a light node state is either fully local or proof-restricted, so
// the native/bytecode distinction carries no meaning and the caller's
// preference is deliberately ignored. This override is part of the
// contract; callers passing another manager observe it. Delegate
// errors are wrapped into ExecutionError, preserving the original
// message.
func (e *Executor) ContextualCall(ctx context.Context, at types.BlockReference, method string, callData []byte,
	changes *state.OverlayedChanges, _ types.ExecutionManager,
	nativeCall lightcall.NativeCall, recorder *state.ProofRecorder,
	extensions types.Extensions) ([]byte, error) {

	if !e.avail.IsLocalStateAvailable(at) {
		return nil, &lightcall.NotAvailableError{Block: at}
	}
	result, err := e.local.ContextualCall(ctx, at, method, callData,
		changes, types.ManagerNativeWhenPossible, nativeCall, recorder, extensions)
	if err != nil {
		return nil, &lightcall.ExecutionError{Method: method, Cause: err}
	}
	return result, nil
}

// RuntimeVersion delegates behind the same gate.
func (e *Executor) RuntimeVersion(ctx context.Context, at types.BlockReference) (types.RuntimeVersionInfo, error) {
	if !e.avail.IsLocalStateAvailable(at) {
		return types.RuntimeVersionInfo{}, &lightcall.NotAvailableError{Block: at}
	}
	return e.local.RuntimeVersion(ctx, at)
}

// ProveAtTrieState always fails: a gated executor never holds enough
// trusted full state to produce a proof itself. Proof production is
// the full-state role (ProveExecution), even when co-located.
func (e *Executor) ProveAtTrieState(context.Context, *state.TrieView, *state.OverlayedChanges,
	string, []byte) ([]byte, types.StorageProof, error) {
	return nil, types.StorageProof{}, &lightcall.NotAvailableError{}
}

// NativeRuntimeVersion reports nil: this executor variant never
// claims to embed a native runtime.
func (e *Executor) NativeRuntimeVersion() *types.RuntimeVersionInfo {
	return nil
}
