// Package types defines the value types shared by every lightcall
// package: block references, headers, storage proofs, runtime version
// metadata and remote call requests.
//
// These are plain Go structs with cramberry struct tags for
// deterministic binary serialization. Transport concerns (gRPC codec
// registration) are handled in the transport package.
package types

import "fmt"

// Hash is a 32-byte cryptographic hash.
type Hash [32]byte

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return fmt.Sprintf("%x", h[:]) }

// BlockReference identifies a block by hash or by number.
// Exactly one of the two fields is normally set; a reference with
// both set must agree with itself, and an empty reference matches
// nothing.
type BlockReference struct {
	Hash   *Hash   `cramberry:"1"`
	Number *uint64 `cramberry:"2"`
}

// ByHash builds a reference identifying a block by its hash.
func ByHash(h Hash) BlockReference {
	return BlockReference{Hash: &h}
}

// ByNumber builds a reference identifying a block by its number.
func ByNumber(n uint64) BlockReference {
	return BlockReference{Number: &n}
}

func (r BlockReference) String() string {
	switch {
	case r.Hash != nil:
		return fmt.Sprintf("hash(%x)", r.Hash[:])
	case r.Number != nil:
		return fmt.Sprintf("number(%d)", *r.Number)
	default:
		return "empty"
	}
}
