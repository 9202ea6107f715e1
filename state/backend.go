// Package state provides the trie-backed state views runtime calls
// execute against: a full in-memory backend, a proof-recording view
// of it, and a proof-restricted backend reconstructed from a storage
// proof. All views expose the same read contract; the restricted
// variant's extra failure mode (unproven key) is the verification
// safety net.
package state

import (
	"errors"
	"fmt"

	"github.com/nichlor/lightcall/types"
)

// CodeKey is the well-known storage key holding the runtime code.
// Both proving and verification resolve code through state, so an
// execution proof necessarily covers it.
var CodeKey = []byte(":code")

// ErrNoRuntimeCode is returned when a backend holds no runtime code
// under CodeKey.
var ErrNoRuntimeCode = errors.New("state: no runtime code in state")

// Reader is the read side shared by every state view.
type Reader interface {
	// Storage returns the value stored under key, or nil if the key
	// is (provably) absent. A proof-restricted view fails instead of
	// answering for keys its proof does not cover.
	Storage(key []byte) ([]byte, error)
}

// Backend is a state view addressable by its trie root.
type Backend interface {
	Reader

	// StorageRoot returns the trie root anchoring this view.
	StorageRoot() types.Hash

	// AsTrieView exposes the full trie underlying this backend for
	// proof-recording execution. Restricted backends report false.
	AsTrieView() (*TrieView, bool)
}

// RuntimeCode resolves the runtime code blob from a state view.
func RuntimeCode(r Reader) ([]byte, error) {
	code, err := r.Storage(CodeKey)
	if err != nil {
		return nil, fmt.Errorf("state: runtime code: %w", err)
	}
	if len(code) == 0 {
		return nil, ErrNoRuntimeCode
	}
	return code, nil
}
