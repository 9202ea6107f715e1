package light_test

import (
	"bytes"
	"context"
	"testing"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/example/kvchain"
	"github.com/nichlor/lightcall/light"
	"github.com/nichlor/lightcall/local"
	"github.com/nichlor/lightcall/state"
	lighttest "github.com/nichlor/lightcall/testing"
	"github.com/nichlor/lightcall/types"
)

// twoBlockChain builds the reference scenario: block 1 with local
// state {k1: v1}, block 2 without local state holding {k1: v2}.
func twoBlockChain() (*lighttest.Chain, *local.Executor) {
	chain := lighttest.NewChain()
	chain.AddBlock(lighttest.Storage(kvchain.CodeBlob(1), map[string][]byte{
		"k1": []byte("v1"),
	}), true)
	chain.AddBlock(lighttest.Storage(kvchain.CodeBlob(1), map[string][]byte{
		"k1": []byte("v2"),
	}), false)
	full := local.NewExecutor(chain, kvchain.Runtime{}, lightcall.SpawnGo{})
	return chain, full
}

func TestGatedCallScenario(t *testing.T) {
	chain, full := twoBlockChain()
	gated := light.NewExecutor(chain, full)
	ctx := context.Background()

	// Block 1 state is local: the call goes through.
	result, err := gated.Call(ctx, types.ByNumber(1), "storage_get", []byte("k1"), types.StrategyAlwaysWasm, nil)
	if err != nil {
		t.Fatalf("call at block 1: %v", err)
	}
	if string(result) != "v1" {
		t.Fatalf("expected v1, got %q", result)
	}

	// Block 2 state is not: fail closed.
	_, err = gated.Call(ctx, types.ByNumber(2), "storage_get", []byte("k1"), types.StrategyAlwaysWasm, nil)
	if !lightcall.IsNotAvailable(err) {
		t.Fatalf("expected NotAvailableError at block 2, got %v", err)
	}
}

func TestProveCheckRoundTrip(t *testing.T) {
	chain, full := twoBlockChain()
	ctx := context.Background()

	backend, err := chain.StateAt(types.ByNumber(2))
	if err != nil {
		t.Fatal(err)
	}
	result, proof, err := light.ProveExecution(ctx, backend, full, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if string(result) != "v2" {
		t.Fatalf("expected v2 from full execution, got %q", result)
	}

	req, err := chain.Request(2, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatal(err)
	}
	checked, err := light.CheckExecutionProof(ctx, kvchain.Runtime{}, lightcall.SpawnGo{}, req, proof)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !bytes.Equal(checked, result) {
		t.Fatalf("verified result %q differs from proved result %q", checked, result)
	}
}

func TestProveCheckRoundTripWithWrites(t *testing.T) {
	chain, full := twoBlockChain()
	ctx := context.Background()

	// storage_put reads the previous value and writes the overlay;
	// the write must not leak into any later execution.
	callData := kvchain.PutCall([]byte("k1"), []byte("v3"))
	backend, err := chain.StateAt(types.ByNumber(2))
	if err != nil {
		t.Fatal(err)
	}
	result, proof, err := light.ProveExecution(ctx, backend, full, "storage_put", callData)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if string(result) != "v2" {
		t.Fatalf("expected previous value v2, got %q", result)
	}

	req, err := chain.Request(2, "storage_put", callData)
	if err != nil {
		t.Fatal(err)
	}
	checked, err := light.CheckExecutionProof(ctx, kvchain.Runtime{}, lightcall.SpawnGo{}, req, proof)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !bytes.Equal(checked, result) {
		t.Fatalf("verified result %q differs from proved result %q", checked, result)
	}

	// The overlay was discarded: backend state is untouched.
	v, err := backend.Storage([]byte("k1"))
	if err != nil || string(v) != "v2" {
		t.Fatalf("backend mutated by call: (%q, %v)", v, err)
	}
}

func TestProveExecutionRefusesRestrictedBackend(t *testing.T) {
	chain, full := twoBlockChain()
	ctx := context.Background()

	backend, err := chain.StateAt(types.ByNumber(2))
	if err != nil {
		t.Fatal(err)
	}
	_, proof, err := light.ProveExecution(ctx, backend, full, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatal(err)
	}

	restricted, err := state.NewProofCheckBackend(backend.StorageRoot(), proof)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = light.ProveExecution(ctx, restricted, full, "storage_get", []byte("k1"))
	if err != lightcall.ErrUnableToGenerateProof {
		t.Fatalf("expected ErrUnableToGenerateProof, got %v", err)
	}
}

func TestCheckFailsOnWrongRoot(t *testing.T) {
	chain, full := twoBlockChain()
	ctx := context.Background()

	backend, err := chain.StateAt(types.ByNumber(2))
	if err != nil {
		t.Fatal(err)
	}
	_, proof, err := light.ProveExecution(ctx, backend, full, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatal(err)
	}

	req, err := chain.Request(2, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.StateRoot[0] ^= 0x01

	result, err := light.CheckExecutionProof(ctx, kvchain.Runtime{}, lightcall.SpawnGo{}, req, proof)
	if _, ok := lightcall.IsProof(err); !ok {
		t.Fatalf("expected ProofError for wrong root, got result %q err %v", result, err)
	}
}

func TestCheckFailsOnMissingCode(t *testing.T) {
	chain, _ := twoBlockChain()
	ctx := context.Background()

	backend, err := chain.StateAt(types.ByNumber(2))
	if err != nil {
		t.Fatal(err)
	}
	view, ok := backend.AsTrieView()
	if !ok {
		t.Fatal("full backend must expose a trie view")
	}
	rec := state.NewProofRecorder()
	if _, err := view.Get([]byte("k1"), rec); err != nil {
		t.Fatal(err)
	}

	req, err := chain.Request(2, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = light.CheckExecutionProof(ctx, kvchain.Runtime{}, lightcall.SpawnGo{}, req, rec.Proof())
	if err != lightcall.ErrRuntimeCodeMissing {
		t.Fatalf("expected ErrRuntimeCodeMissing, got %v", err)
	}
}

func TestCheckFailsOnUnprovenRead(t *testing.T) {
	ctx := context.Background()

	// The "zz" value is large enough to live in its own trie node, so
	// a proof recorded for a k1 read cannot cover it. Verifying a call
	// that reads it must fail as an execution error, never return a
	// default value.
	chain := lighttest.NewChain()
	chain.AddBlock(lighttest.Storage(kvchain.CodeBlob(1), map[string][]byte{
		"k1": []byte("v1"),
		"zz": bytes.Repeat([]byte{0x7a}, 40),
	}), true)
	full := local.NewExecutor(chain, kvchain.Runtime{}, lightcall.SpawnGo{})

	backend, err := chain.StateAt(types.ByNumber(1))
	if err != nil {
		t.Fatal(err)
	}
	_, proof, err := light.ProveExecution(ctx, backend, full, "storage_get", []byte("k1"))
	if err != nil {
		t.Fatal(err)
	}

	req, err := chain.Request(1, "storage_get", []byte("zz"))
	if err != nil {
		t.Fatal(err)
	}
	result, err := light.CheckExecutionProof(ctx, kvchain.Runtime{}, lightcall.SpawnGo{}, req, proof)
	if _, ok := lightcall.IsExecution(err); !ok {
		t.Fatalf("expected ExecutionError for unproven read, got result %q err %v", result, err)
	}
}
