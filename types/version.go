package types

import "fmt"

// APIVersion declares support for one runtime API at a given version.
type APIVersion struct {
	ID      [8]byte `cramberry:"1"`
	Version uint32  `cramberry:"2"`
}

// RuntimeVersionInfo describes the runtime code a block's state
// implies: spec identity, versions and supported APIs. It is looked
// up from state, never produced by this module.
type RuntimeVersionInfo struct {
	SpecName           string       `cramberry:"1"`
	ImplName           string       `cramberry:"2"`
	AuthoringVersion   uint32       `cramberry:"3"`
	SpecVersion        uint32       `cramberry:"4"`
	ImplVersion        uint32       `cramberry:"5"`
	APIs               []APIVersion `cramberry:"6"`
	TransactionVersion uint32       `cramberry:"7"`
}

func (v RuntimeVersionInfo) String() string {
	return fmt.Sprintf("%s-%d (%s-%d.tx%d)",
		v.SpecName, v.SpecVersion, v.ImplName, v.ImplVersion, v.TransactionVersion)
}
