// Package local provides the full-node call executor: it resolves a
// block's fully materialized state, loads the runtime code from it
// and runs the call through a CodeExecutor. It is the delegate behind
// the gated light-client executor and the producer side of execution
// proofs.
package local

import (
	"context"
	"fmt"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// Compile-time interface check.
var _ lightcall.CallExecutor = (*Executor)(nil)

// Executor executes runtime calls against locally held full state.
// It is safe for concurrent use: every call builds its own overlay
// and externalities, and the shared collaborators are read-only from
// its point of view.
type Executor struct {
	states  lightcall.StateProvider
	exec    lightcall.CodeExecutor
	spawner lightcall.TaskSpawner
	native  *types.RuntimeVersionInfo
}

// NewExecutor creates a full-node executor over the given state
// provider and runtime interpreter.
func NewExecutor(states lightcall.StateProvider, exec lightcall.CodeExecutor, spawner lightcall.TaskSpawner) *Executor {
	return &Executor{states: states, exec: exec, spawner: spawner}
}

// WithNativeVersion declares the version of a native runtime
// implementation embedded alongside the interpreter.
func (e *Executor) WithNativeVersion(v types.RuntimeVersionInfo) *Executor {
	e.native = &v
	return e
}

// Call executes method against the state of the given block. The
// strategy is accepted for interface compatibility; with a single
// execution engine behind the interpreter it selects nothing.
func (e *Executor) Call(ctx context.Context, at types.BlockReference, method string, callData []byte,
	_ types.ExecutionStrategy, _ types.Extensions) ([]byte, error) {

	backend, err := e.states.StateAt(at)
	if err != nil {
		return nil, fmt.Errorf("local: state at %s: %w", at, err)
	}
	code, err := state.RuntimeCode(backend)
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}

	changes := state.NewOverlayedChanges()
	ext := state.NewExternalities(changes, backend)
	result, err := e.exec.Call(ctx, code, method, callData, ext, e.spawner)
	if err != nil {
		return nil, &lightcall.ExecutionError{Method: method, Cause: err}
	}
	return result, nil
}

// ContextualCall executes method with a caller-owned overlay. When
// the manager prefers native execution and a native closure is
// supplied, the closure runs instead of the interpreter. When
// recorder is non-nil, reads are proved into it, which requires the
// backend to expose a trie view.
func (e *Executor) ContextualCall(ctx context.Context, at types.BlockReference, method string, callData []byte,
	changes *state.OverlayedChanges, manager types.ExecutionManager,
	nativeCall lightcall.NativeCall, recorder *state.ProofRecorder,
	_ types.Extensions) ([]byte, error) {

	if manager == types.ManagerNativeWhenPossible && nativeCall != nil {
		result, err := nativeCall()
		if err != nil {
			return nil, &lightcall.ExecutionError{Method: method, Cause: err}
		}
		return result, nil
	}

	backend, err := e.states.StateAt(at)
	if err != nil {
		return nil, fmt.Errorf("local: state at %s: %w", at, err)
	}

	reader := state.Reader(backend)
	if recorder != nil {
		view, ok := backend.AsTrieView()
		if !ok {
			return nil, lightcall.ErrUnableToGenerateProof
		}
		reader = view.Recording(recorder)
	}

	code, err := state.RuntimeCode(reader)
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}

	ext := state.NewExternalities(changes, reader)
	result, err := e.exec.Call(ctx, code, method, callData, ext, e.spawner)
	if err != nil {
		return nil, &lightcall.ExecutionError{Method: method, Cause: err}
	}
	return result, nil
}

// RuntimeVersion reads the runtime code from the block's state and
// extracts its version metadata.
func (e *Executor) RuntimeVersion(ctx context.Context, at types.BlockReference) (types.RuntimeVersionInfo, error) {
	backend, err := e.states.StateAt(at)
	if err != nil {
		return types.RuntimeVersionInfo{}, fmt.Errorf("local: state at %s: %w", at, err)
	}
	code, err := state.RuntimeCode(backend)
	if err != nil {
		return types.RuntimeVersionInfo{}, fmt.Errorf("local: %w", err)
	}
	return e.exec.RuntimeVersion(code)
}

// ProveAtTrieState executes method against the given trie view with
// every read (runtime code included) proved into a fresh recorder,
// and returns the result together with the accumulated proof. On
// execution failure the partial proof is discarded.
func (e *Executor) ProveAtTrieState(ctx context.Context, view *state.TrieView, changes *state.OverlayedChanges,
	method string, callData []byte) ([]byte, types.StorageProof, error) {

	rec := state.NewProofRecorder()
	reader := view.Recording(rec)

	code, err := state.RuntimeCode(reader)
	if err != nil {
		return nil, types.StorageProof{}, fmt.Errorf("local: %w", err)
	}

	ext := state.NewExternalities(changes, reader)
	result, err := e.exec.Call(ctx, code, method, callData, ext, e.spawner)
	if err != nil {
		return nil, types.StorageProof{}, &lightcall.ExecutionError{Method: method, Cause: err}
	}
	return result, rec.Proof(), nil
}

// NativeRuntimeVersion reports the embedded native runtime version,
// if one was declared.
func (e *Executor) NativeRuntimeVersion() *types.RuntimeVersionInfo {
	return e.native
}
