package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/nichlor/lightcall/types"
)

// Compile-time interface check.
var _ Backend = (*ProofCheckBackend)(nil)

// ProofCheckBackend is a proof-restricted state view: only key
// lookups covered by the proof it was built from can be answered.
// Any other read fails; it never silently returns a default.
type ProofCheckBackend struct {
	root  common.Hash
	nodes *memorydb.Database
}

// NewProofCheckBackend reconstructs a restricted view rooted at root
// from a storage proof. It fails when the proof contains no node
// hashing to the declared root (wrong root, or a malformed proof).
func NewProofCheckBackend(root types.Hash, proof types.StorageProof) (*ProofCheckBackend, error) {
	db := memorydb.New()
	rootSeen := false
	for _, enc := range proof.TrieNodes {
		h := crypto.Keccak256Hash(enc)
		if h == common.Hash(root) {
			rootSeen = true
		}
		if err := db.Put(h.Bytes(), enc); err != nil {
			return nil, fmt.Errorf("state: load proof node: %w", err)
		}
	}
	if !rootSeen {
		return nil, fmt.Errorf("state: proof does not chain to root %x", root)
	}
	return &ProofCheckBackend{root: common.Hash(root), nodes: db}, nil
}

func (b *ProofCheckBackend) Storage(key []byte) ([]byte, error) {
	val, err := trie.VerifyProof(b.root, key, b.nodes)
	if err != nil {
		return nil, fmt.Errorf("state: read of key %x not covered by proof: %w", key, err)
	}
	return val, nil
}

func (b *ProofCheckBackend) StorageRoot() types.Hash {
	return types.Hash(b.root)
}

// AsTrieView reports false: a restricted view can never generate
// proofs of its own.
func (b *ProofCheckBackend) AsTrieView() (*TrieView, bool) {
	return nil, false
}

// NodeCount returns the number of distinct proof nodes loaded.
func (b *ProofCheckBackend) NodeCount() int {
	return b.nodes.Len()
}
