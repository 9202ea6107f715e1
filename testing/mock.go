package lighttest

import (
	"context"
	"sync/atomic"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// Compile-time interface check.
var _ lightcall.CallExecutor = (*MockExecutor)(nil)

// MockExecutor is a configurable CallExecutor for testing wrappers.
// All methods are configurable via function fields; unconfigured
// methods return canned defaults. Call counters are atomic so gating
// tests can assert the delegate was (or was not) touched
// concurrently.
type MockExecutor struct {
	CallFn func(context.Context, types.BlockReference, string, []byte,
		types.ExecutionStrategy, types.Extensions) ([]byte, error)
	ContextualCallFn func(context.Context, types.BlockReference, string, []byte,
		*state.OverlayedChanges, types.ExecutionManager, lightcall.NativeCall,
		*state.ProofRecorder, types.Extensions) ([]byte, error)
	RuntimeVersionFn   func(context.Context, types.BlockReference) (types.RuntimeVersionInfo, error)
	ProveAtTrieStateFn func(context.Context, *state.TrieView, *state.OverlayedChanges,
		string, []byte) ([]byte, types.StorageProof, error)

	// NativeVersion is returned by NativeRuntimeVersion.
	NativeVersion *types.RuntimeVersionInfo

	CallCalls           atomic.Int64
	ContextualCallCalls atomic.Int64
	RuntimeVersionCalls atomic.Int64
	ProveCalls          atomic.Int64
}

func (m *MockExecutor) Call(ctx context.Context, at types.BlockReference, method string, callData []byte,
	strategy types.ExecutionStrategy, extensions types.Extensions) ([]byte, error) {
	m.CallCalls.Add(1)
	if m.CallFn != nil {
		return m.CallFn(ctx, at, method, callData, strategy, extensions)
	}
	return []byte("mock-result"), nil
}

func (m *MockExecutor) ContextualCall(ctx context.Context, at types.BlockReference, method string, callData []byte,
	changes *state.OverlayedChanges, manager types.ExecutionManager,
	nativeCall lightcall.NativeCall, recorder *state.ProofRecorder,
	extensions types.Extensions) ([]byte, error) {
	m.ContextualCallCalls.Add(1)
	if m.ContextualCallFn != nil {
		return m.ContextualCallFn(ctx, at, method, callData, changes, manager, nativeCall, recorder, extensions)
	}
	return []byte("mock-contextual-result"), nil
}

func (m *MockExecutor) RuntimeVersion(ctx context.Context, at types.BlockReference) (types.RuntimeVersionInfo, error) {
	m.RuntimeVersionCalls.Add(1)
	if m.RuntimeVersionFn != nil {
		return m.RuntimeVersionFn(ctx, at)
	}
	return types.RuntimeVersionInfo{SpecName: "mock", SpecVersion: 1}, nil
}

func (m *MockExecutor) ProveAtTrieState(ctx context.Context, view *state.TrieView, changes *state.OverlayedChanges,
	method string, callData []byte) ([]byte, types.StorageProof, error) {
	m.ProveCalls.Add(1)
	if m.ProveAtTrieStateFn != nil {
		return m.ProveAtTrieStateFn(ctx, view, changes, method, callData)
	}
	return []byte("mock-proved"), types.StorageProof{}, nil
}

func (m *MockExecutor) NativeRuntimeVersion() *types.RuntimeVersionInfo {
	return m.NativeVersion
}

// StaticAvailability is an availability oracle with a fixed answer.
type StaticAvailability bool

func (a StaticAvailability) IsLocalStateAvailable(types.BlockReference) bool { return bool(a) }
