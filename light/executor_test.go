package light_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/light"
	"github.com/nichlor/lightcall/state"
	lighttest "github.com/nichlor/lightcall/testing"
	"github.com/nichlor/lightcall/types"
)

func TestCallDelegatesVerbatimWhenAvailable(t *testing.T) {
	var gotStrategy types.ExecutionStrategy
	var gotMethod string
	mock := &lighttest.MockExecutor{
		CallFn: func(_ context.Context, _ types.BlockReference, method string, callData []byte,
			strategy types.ExecutionStrategy, _ types.Extensions) ([]byte, error) {
			gotMethod = method
			gotStrategy = strategy
			return append([]byte("result:"), callData...), nil
		},
	}
	gated := light.NewExecutor(lighttest.StaticAvailability(true), mock)

	result, err := gated.Call(context.Background(), types.ByNumber(1),
		"storage_get", []byte("k1"), types.StrategyAlwaysWasm, nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !bytes.Equal(result, []byte("result:k1")) {
		t.Fatalf("result not passed through: %q", result)
	}
	if gotMethod != "storage_get" || gotStrategy != types.StrategyAlwaysWasm {
		t.Fatalf("arguments not forwarded verbatim: %s/%s", gotMethod, gotStrategy)
	}
}

func TestCallErrorPassesThroughUnwrapped(t *testing.T) {
	cause := errors.New("method not found")
	mock := &lighttest.MockExecutor{
		CallFn: func(context.Context, types.BlockReference, string, []byte,
			types.ExecutionStrategy, types.Extensions) ([]byte, error) {
			return nil, cause
		},
	}
	gated := light.NewExecutor(lighttest.StaticAvailability(true), mock)

	_, err := gated.Call(context.Background(), types.ByNumber(1), "m", nil, 0, nil)
	if err != cause {
		t.Fatalf("Call must return the delegate error unmodified, got %v", err)
	}
}

func TestUnavailableNeverTouchesDelegate(t *testing.T) {
	mock := &lighttest.MockExecutor{}
	gated := light.NewExecutor(lighttest.StaticAvailability(false), mock)
	ctx := context.Background()
	at := types.ByNumber(9)

	if _, err := gated.Call(ctx, at, "m", nil, 0, nil); !lightcall.IsNotAvailable(err) {
		t.Errorf("Call: expected NotAvailableError, got %v", err)
	}
	if _, err := gated.ContextualCall(ctx, at, "m", nil,
		state.NewOverlayedChanges(), types.ManagerAlwaysWasm, nil, nil, nil); !lightcall.IsNotAvailable(err) {
		t.Errorf("ContextualCall: expected NotAvailableError, got %v", err)
	}
	if _, err := gated.RuntimeVersion(ctx, at); !lightcall.IsNotAvailable(err) {
		t.Errorf("RuntimeVersion: expected NotAvailableError, got %v", err)
	}

	total := mock.CallCalls.Load() + mock.ContextualCallCalls.Load() + mock.RuntimeVersionCalls.Load()
	if total != 0 {
		t.Fatalf("delegate touched %d times despite unavailable state", total)
	}
}

func TestAvailabilityRecheckedPerCall(t *testing.T) {
	chain := lighttest.NewChain()
	chain.AddBlock(map[string][]byte{"k": []byte("v")}, true)
	mock := &lighttest.MockExecutor{}
	gated := light.NewExecutor(chain, mock)
	ctx := context.Background()
	at := types.ByNumber(1)

	if _, err := gated.Call(ctx, at, "m", nil, 0, nil); err != nil {
		t.Fatalf("available call: %v", err)
	}

	// Simulate pruning between calls.
	chain.SetAvailable(at, false)
	if _, err := gated.Call(ctx, at, "m", nil, 0, nil); !lightcall.IsNotAvailable(err) {
		t.Fatalf("expected NotAvailableError after pruning, got %v", err)
	}
	if mock.CallCalls.Load() != 1 {
		t.Fatalf("delegate call count: %d", mock.CallCalls.Load())
	}
}

func TestContextualCallForcesNativeWhenPossible(t *testing.T) {
	var gotManager types.ExecutionManager
	mock := &lighttest.MockExecutor{
		ContextualCallFn: func(_ context.Context, _ types.BlockReference, _ string, _ []byte,
			_ *state.OverlayedChanges, manager types.ExecutionManager, _ lightcall.NativeCall,
			_ *state.ProofRecorder, _ types.Extensions) ([]byte, error) {
			gotManager = manager
			return []byte("ok"), nil
		},
	}
	gated := light.NewExecutor(lighttest.StaticAvailability(true), mock)

	// The caller's manager preference must be overridden.
	_, err := gated.ContextualCall(context.Background(), types.ByNumber(1), "m", nil,
		state.NewOverlayedChanges(), types.ManagerAlwaysWasm, nil, nil, nil)
	if err != nil {
		t.Fatalf("contextual call: %v", err)
	}
	if gotManager != types.ManagerNativeWhenPossible {
		t.Fatalf("expected forced ManagerNativeWhenPossible, delegate saw %s", gotManager)
	}
}

func TestContextualCallWrapsDelegateError(t *testing.T) {
	cause := errors.New("runtime trap")
	mock := &lighttest.MockExecutor{
		ContextualCallFn: func(context.Context, types.BlockReference, string, []byte,
			*state.OverlayedChanges, types.ExecutionManager, lightcall.NativeCall,
			*state.ProofRecorder, types.Extensions) ([]byte, error) {
			return nil, cause
		},
	}
	gated := light.NewExecutor(lighttest.StaticAvailability(true), mock)

	_, err := gated.ContextualCall(context.Background(), types.ByNumber(1), "m", nil,
		state.NewOverlayedChanges(), types.ManagerNativeWhenPossible, nil, nil, nil)
	x, ok := lightcall.IsExecution(err)
	if !ok {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !errors.Is(x, cause) {
		t.Fatal("original error must be preserved as the cause")
	}
}

func TestProveAtTrieStateAlwaysRefused(t *testing.T) {
	mock := &lighttest.MockExecutor{}
	gated := light.NewExecutor(lighttest.StaticAvailability(true), mock)

	_, _, err := gated.ProveAtTrieState(context.Background(), nil, state.NewOverlayedChanges(), "m", nil)
	if !lightcall.IsNotAvailable(err) {
		t.Fatalf("expected NotAvailableError, got %v", err)
	}
	if mock.ProveCalls.Load() != 0 {
		t.Fatal("delegate prover must never be touched")
	}
}

func TestNativeRuntimeVersionNone(t *testing.T) {
	v := types.RuntimeVersionInfo{SpecName: "native"}
	mock := &lighttest.MockExecutor{NativeVersion: &v}
	gated := light.NewExecutor(lighttest.StaticAvailability(true), mock)

	// Even with a native-capable delegate the gated executor reports none.
	if got := gated.NativeRuntimeVersion(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
