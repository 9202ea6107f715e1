// Package lighttest provides test utilities for the lightcall
// executor stack: an in-memory chain fixture, a configurable mock
// executor, and a compliance test suite for CallExecutor
// implementations.
package lighttest

import (
	"fmt"
	"sync"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// Compile-time interface checks.
var (
	_ lightcall.StateProvider     = (*Chain)(nil)
	_ lightcall.StateAvailability = (*Chain)(nil)
)

// Block is one chain fixture entry: a header, the full state behind
// it, and a flag simulating whether that state is held locally.
type Block struct {
	Header    types.Header
	Backend   *state.InMemoryBackend
	Available bool
}

// Chain is an in-memory chain fixture. It plays both collaborator
// roles the executors need: state provider and availability oracle.
// Availability is mutable to simulate pruning and import.
type Chain struct {
	mu     sync.RWMutex
	byNum  map[uint64]*Block
	byHash map[types.Hash]*Block
	tip    types.Hash
	height uint64
}

// NewChain returns an empty chain fixture.
func NewChain() *Chain {
	return &Chain{
		byNum:  make(map[uint64]*Block),
		byHash: make(map[types.Hash]*Block),
	}
}

// AddBlock appends a block whose state holds the given pairs and
// returns its header. The state root is the trie root of the pairs.
func (c *Chain) AddBlock(storage map[string][]byte, available bool) types.Header {
	c.mu.Lock()
	defer c.mu.Unlock()

	backend := state.NewInMemoryBackend(storage)
	header := types.Header{
		Number:     c.height + 1,
		ParentHash: c.tip,
		StateRoot:  backend.StorageRoot(),
	}
	b := &Block{Header: header, Backend: backend, Available: available}
	c.byNum[header.Number] = b
	c.byHash[header.Hash()] = b
	c.tip = header.Hash()
	c.height = header.Number
	return header
}

// SetAvailable flips local availability for a block, simulating
// pruning (false) or full import (true).
func (c *Chain) SetAvailable(at types.BlockReference, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.resolve(at); ok {
		b.Available = available
	}
}

// Header returns the header at the given height.
func (c *Chain) Header(number uint64) (types.Header, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byNum[number]
	if !ok {
		return types.Header{}, false
	}
	return b.Header, true
}

// StateAt resolves a block reference to its full state backend.
func (c *Chain) StateAt(at types.BlockReference) (state.Backend, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.resolve(at)
	if !ok {
		return nil, fmt.Errorf("lighttest: unknown block %s", at)
	}
	return b.Backend, nil
}

// IsLocalStateAvailable reports the fixture's availability flag for
// the block; unknown blocks are unavailable.
func (c *Chain) IsLocalStateAvailable(at types.BlockReference) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.resolve(at)
	return ok && b.Available
}

// Request builds a RemoteCallRequest for the block at the given
// height.
func (c *Chain) Request(number uint64, method string, callData []byte) (types.RemoteCallRequest, error) {
	header, ok := c.Header(number)
	if !ok {
		return types.RemoteCallRequest{}, fmt.Errorf("lighttest: unknown block number(%d)", number)
	}
	return types.RemoteCallRequest{
		Block:    types.ByNumber(number),
		Header:   header,
		Method:   method,
		CallData: callData,
	}, nil
}

func (c *Chain) resolve(at types.BlockReference) (*Block, bool) {
	if at.Hash != nil {
		b, ok := c.byHash[*at.Hash]
		return b, ok
	}
	if at.Number != nil {
		b, ok := c.byNum[*at.Number]
		return b, ok
	}
	return nil, false
}

// Storage builds a storage map holding the given runtime code under
// the well-known code key plus the supplied pairs.
func Storage(code []byte, pairs map[string][]byte) map[string][]byte {
	st := make(map[string][]byte, len(pairs)+1)
	st[string(state.CodeKey)] = code
	for k, v := range pairs {
		st[k] = v
	}
	return st
}
