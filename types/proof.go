package types

// StorageProof is an ordered set of opaque, content-addressed trie
// node encodings, sufficient to prove a specific set of key lookups
// against one declared state root. It is self-contained and
// transport-agnostic: the byte encoding of each node is defined by
// the trie layer and treated as a blob here.
type StorageProof struct {
	TrieNodes [][]byte `cramberry:"1"`
}

// Empty reports whether the proof carries no trie nodes.
func (p StorageProof) Empty() bool { return len(p.TrieNodes) == 0 }

// Clone returns a deep copy of the proof.
func (p StorageProof) Clone() StorageProof {
	nodes := make([][]byte, len(p.TrieNodes))
	for i, n := range p.TrieNodes {
		nodes[i] = append([]byte(nil), n...)
	}
	return StorageProof{TrieNodes: nodes}
}
