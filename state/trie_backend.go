package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"

	"github.com/nichlor/lightcall/types"
)

// Compile-time interface check.
var _ Backend = (*InMemoryBackend)(nil)

// InMemoryBackend is a fully materialized trie-backed state view. It
// is the "full" backend: every key is readable and the underlying
// trie can prove any lookup.
type InMemoryBackend struct {
	tr *trie.Trie
}

// NewInMemoryBackend builds a trie over the given key/value pairs.
func NewInMemoryBackend(pairs map[string][]byte) *InMemoryBackend {
	db := triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil)
	tr := trie.NewEmpty(db)
	for k, v := range pairs {
		tr.MustUpdate([]byte(k), v)
	}
	return &InMemoryBackend{tr: tr}
}

func (b *InMemoryBackend) Storage(key []byte) ([]byte, error) {
	return b.tr.Get(key)
}

func (b *InMemoryBackend) StorageRoot() types.Hash {
	return types.Hash(b.tr.Hash())
}

func (b *InMemoryBackend) AsTrieView() (*TrieView, bool) {
	return &TrieView{tr: b.tr}, true
}

// TrieView exposes the trie underlying a full backend for
// proof-recording execution.
type TrieView struct {
	tr *trie.Trie
}

// Root returns the trie root of the view.
func (v *TrieView) Root() types.Hash {
	return types.Hash(v.tr.Hash())
}

// Get reads a key, proving the lookup into rec when non-nil.
func (v *TrieView) Get(key []byte, rec *ProofRecorder) ([]byte, error) {
	if rec != nil {
		if err := v.tr.Prove(key, rec); err != nil {
			return nil, fmt.Errorf("state: prove key %x: %w", key, err)
		}
	}
	return v.tr.Get(key)
}

// Recording returns a Reader whose every lookup is proved into rec.
func (v *TrieView) Recording(rec *ProofRecorder) Reader {
	return &recordingReader{view: v, rec: rec}
}

type recordingReader struct {
	view *TrieView
	rec  *ProofRecorder
}

func (r *recordingReader) Storage(key []byte) ([]byte, error) {
	return r.view.Get(key, r.rec)
}

// ProofRecorder accumulates the trie nodes touched while proving key
// lookups. It satisfies the trie layer's node sink (ethdb
// KeyValueWriter) and deduplicates nodes by content hash, preserving
// first-touch order.
type ProofRecorder struct {
	nodes [][]byte
	seen  map[common.Hash]struct{}
}

// NewProofRecorder returns an empty recorder.
func NewProofRecorder() *ProofRecorder {
	return &ProofRecorder{seen: make(map[common.Hash]struct{})}
}

// Put receives one content-addressed trie node from the prover.
func (r *ProofRecorder) Put(key []byte, value []byte) error {
	h := common.BytesToHash(key)
	if _, ok := r.seen[h]; ok {
		return nil
	}
	r.seen[h] = struct{}{}
	r.nodes = append(r.nodes, append([]byte(nil), value...))
	return nil
}

// Delete is required by the node sink interface; proofs are
// append-only.
func (r *ProofRecorder) Delete(key []byte) error { return nil }

// Proof returns the accumulated storage proof.
func (r *ProofRecorder) Proof() types.StorageProof {
	return types.StorageProof{TrieNodes: r.nodes}.Clone()
}
