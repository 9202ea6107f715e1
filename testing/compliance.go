package lighttest

import (
	"bytes"
	"context"
	"testing"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/light"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// Fixture bundles everything the compliance suite needs. The chain
// must hold (at least) two blocks: block 1 with state available
// locally and block 2 without. Method/CallData must execute against
// both blocks' state reading only keys present there, and DataKey
// must be one of the keys that execution reads.
type Fixture struct {
	Chain    *Chain
	Local    lightcall.CallExecutor
	Code     lightcall.CodeExecutor
	Method   string
	CallData []byte
	DataKey  []byte
}

// RunComplianceSuite verifies the executor-stack contract: gating,
// proof round trips, tamper sensitivity and determinism. The factory
// must return a fresh fixture per invocation.
func RunComplianceSuite(t *testing.T, factory func() *Fixture) {
	t.Helper()
	ctx := context.Background()

	t.Run("available_delegates_verbatim", func(t *testing.T) {
		f := factory()
		gated := light.NewExecutor(f.Chain, f.Local)

		want, err := f.Local.Call(ctx, types.ByNumber(1), f.Method, f.CallData, types.StrategyAlwaysWasm, nil)
		if err != nil {
			t.Fatalf("local call: %v", err)
		}
		got, err := gated.Call(ctx, types.ByNumber(1), f.Method, f.CallData, types.StrategyAlwaysWasm, nil)
		if err != nil {
			t.Fatalf("gated call: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("gated result %q differs from local result %q", got, want)
		}
	})

	t.Run("unavailable_fails_closed", func(t *testing.T) {
		f := factory()
		gated := light.NewExecutor(f.Chain, f.Local)
		at := types.ByNumber(2)

		strategies := []types.ExecutionStrategy{
			types.StrategyNativeWhenPossible,
			types.StrategyAlwaysWasm,
			types.StrategyNativeElseWasm,
			types.StrategyBoth,
		}
		for _, s := range strategies {
			if _, err := gated.Call(ctx, at, f.Method, f.CallData, s, nil); !lightcall.IsNotAvailable(err) {
				t.Errorf("Call strategy %s: expected NotAvailableError, got %v", s, err)
			}
		}
		changes := state.NewOverlayedChanges()
		if _, err := gated.ContextualCall(ctx, at, f.Method, f.CallData, changes,
			types.ManagerAlwaysWasm, nil, nil, nil); !lightcall.IsNotAvailable(err) {
			t.Errorf("ContextualCall: expected NotAvailableError, got %v", err)
		}
		if _, err := gated.RuntimeVersion(ctx, at); !lightcall.IsNotAvailable(err) {
			t.Errorf("RuntimeVersion: expected NotAvailableError, got %v", err)
		}
	})

	t.Run("prove_at_state_refused", func(t *testing.T) {
		f := factory()
		gated := light.NewExecutor(f.Chain, f.Local)

		backend, err := f.Chain.StateAt(types.ByNumber(1))
		if err != nil {
			t.Fatalf("state at 1: %v", err)
		}
		view, ok := backend.AsTrieView()
		if !ok {
			t.Fatal("full backend must expose a trie view")
		}
		_, _, err = gated.ProveAtTrieState(ctx, view, state.NewOverlayedChanges(), f.Method, f.CallData)
		if !lightcall.IsNotAvailable(err) {
			t.Fatalf("expected NotAvailableError, got %v", err)
		}
	})

	t.Run("native_version_none", func(t *testing.T) {
		f := factory()
		gated := light.NewExecutor(f.Chain, f.Local)
		if v := gated.NativeRuntimeVersion(); v != nil {
			t.Fatalf("expected nil native version, got %v", v)
		}
	})

	t.Run("prove_check_round_trip", func(t *testing.T) {
		f := factory()
		backend, err := f.Chain.StateAt(types.ByNumber(2))
		if err != nil {
			t.Fatalf("state at 2: %v", err)
		}

		result, proof, err := light.ProveExecution(ctx, backend, f.Local, f.Method, f.CallData)
		if err != nil {
			t.Fatalf("prove: %v", err)
		}
		req, err := f.Chain.Request(2, f.Method, f.CallData)
		if err != nil {
			t.Fatal(err)
		}
		checked, err := light.CheckExecutionProof(ctx, f.Code, lightcall.SpawnGo{}, req, proof)
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if !bytes.Equal(checked, result) {
			t.Fatalf("checked result %q differs from proved result %q", checked, result)
		}
	})

	t.Run("tampered_proof_fails", func(t *testing.T) {
		f := factory()
		backend, err := f.Chain.StateAt(types.ByNumber(2))
		if err != nil {
			t.Fatalf("state at 2: %v", err)
		}
		result, proof, err := light.ProveExecution(ctx, backend, f.Local, f.Method, f.CallData)
		if err != nil {
			t.Fatalf("prove: %v", err)
		}
		req, err := f.Chain.Request(2, f.Method, f.CallData)
		if err != nil {
			t.Fatal(err)
		}

		for i := range proof.TrieNodes {
			tampered := proof.Clone()
			tampered.TrieNodes[i][0] ^= 0xff
			got, err := light.CheckExecutionProof(ctx, f.Code, lightcall.SpawnGo{}, req, tampered)
			if err == nil {
				t.Fatalf("node %d tampered: expected failure, got result %q (original %q)", i, got, result)
			}
		}
	})

	t.Run("missing_code_fails", func(t *testing.T) {
		f := factory()
		backend, err := f.Chain.StateAt(types.ByNumber(2))
		if err != nil {
			t.Fatalf("state at 2: %v", err)
		}
		view, ok := backend.AsTrieView()
		if !ok {
			t.Fatal("full backend must expose a trie view")
		}

		// A proof covering only the data key, not the runtime code.
		rec := state.NewProofRecorder()
		if _, err := view.Get(f.DataKey, rec); err != nil {
			t.Fatalf("prove data key: %v", err)
		}
		req, err := f.Chain.Request(2, f.Method, f.CallData)
		if err != nil {
			t.Fatal(err)
		}
		_, err = light.CheckExecutionProof(ctx, f.Code, lightcall.SpawnGo{}, req, rec.Proof())
		if err != lightcall.ErrRuntimeCodeMissing {
			t.Fatalf("expected ErrRuntimeCodeMissing, got %v", err)
		}
	})

	t.Run("check_is_deterministic", func(t *testing.T) {
		f := factory()
		backend, err := f.Chain.StateAt(types.ByNumber(2))
		if err != nil {
			t.Fatalf("state at 2: %v", err)
		}
		_, proof, err := light.ProveExecution(ctx, backend, f.Local, f.Method, f.CallData)
		if err != nil {
			t.Fatalf("prove: %v", err)
		}
		req, err := f.Chain.Request(2, f.Method, f.CallData)
		if err != nil {
			t.Fatal(err)
		}

		first, err1 := light.CheckExecutionProof(ctx, f.Code, lightcall.SpawnGo{}, req, proof)
		second, err2 := light.CheckExecutionProof(ctx, f.Code, lightcall.SpawnGo{}, req, proof)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("non-deterministic outcome: %v vs %v", err1, err2)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("non-deterministic result: %q vs %q", first, second)
		}
	})

	t.Run("wrong_root_fails", func(t *testing.T) {
		f := factory()
		backend, err := f.Chain.StateAt(types.ByNumber(2))
		if err != nil {
			t.Fatalf("state at 2: %v", err)
		}
		result, proof, err := light.ProveExecution(ctx, backend, f.Local, f.Method, f.CallData)
		if err != nil {
			t.Fatalf("prove: %v", err)
		}
		req, err := f.Chain.Request(2, f.Method, f.CallData)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.StateRoot[0] ^= 0xff

		got, err := light.CheckExecutionProof(ctx, f.Code, lightcall.SpawnGo{}, req, proof)
		if _, ok := lightcall.IsProof(err); !ok {
			t.Fatalf("expected ProofError, got result %q err %v (honest result %q)", got, err, result)
		}
	})
}
