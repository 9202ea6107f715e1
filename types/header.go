package types

import (
	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/ethereum/go-ethereum/crypto"
)

// Header is the part of a block header this module relies on. The
// StateRoot anchors every storage proof; trust in it must be
// established by the caller (e.g. through header sync) before a proof
// is checked against it.
type Header struct {
	Number     uint64 `cramberry:"1"`
	ParentHash Hash   `cramberry:"2"`
	StateRoot  Hash   `cramberry:"3"`
}

// Hash returns the keccak-256 digest of the canonical header encoding.
func (h Header) Hash() Hash {
	enc, err := cramberry.Marshal(&h)
	if err != nil {
		// Header contains no unmarshalable fields; treat encoder
		// failure as a programming error.
		panic("types: header encoding: " + err.Error())
	}
	return Hash(crypto.Keccak256Hash(enc))
}
