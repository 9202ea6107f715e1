package lightcall

import (
	"errors"
	"fmt"

	"github.com/nichlor/lightcall/types"
)

// ErrUnableToGenerateProof signals that the backend handed to proof
// generation cannot expose a trie view (e.g. it is itself a
// proof-restricted backend).
var ErrUnableToGenerateProof = errors.New(
	"github.com/nichlor/lightcall: backend cannot expose a trie view for proof generation")

// ErrRuntimeCodeMissing signals that a proof-restricted backend lacks
// the runtime code needed to execute the call; execution is never
// attempted with absent code.
var ErrRuntimeCodeMissing = errors.New(
	"github.com/nichlor/lightcall: storage proof does not cover the runtime code")

// NotAvailableError is returned by every gated executor operation
// whose target block's full state is not held locally. The gate fails
// closed: the delegate executor is never touched.
type NotAvailableError struct {
	Block types.BlockReference
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("github.com/nichlor/lightcall: state of block %s not available on light client", e.Block)
}

// IsNotAvailable checks whether an error is a NotAvailableError.
func IsNotAvailable(err error) bool {
	var n *NotAvailableError
	return errors.As(err, &n)
}

// ExecutionError signals that the underlying call itself failed
// (method not found, runtime trap, unproven state read). The cause is
// wrapped exactly once, preserving the original message.
type ExecutionError struct {
	Method string
	Cause  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("github.com/nichlor/lightcall: execution of %q failed: %v", e.Method, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// IsExecution checks whether an error is an ExecutionError and
// returns it.
func IsExecution(err error) (*ExecutionError, bool) {
	var x *ExecutionError
	if errors.As(err, &x) {
		return x, true
	}
	return nil, false
}

// ProofError signals that a storage proof could not be reconstructed
// into a state view against the declared root (malformed proof or
// root mismatch). It is distinct from ExecutionError, which covers
// failures after a view was established.
type ProofError struct {
	Root  types.Hash
	Cause error
}

func (e *ProofError) Error() string {
	return fmt.Sprintf("github.com/nichlor/lightcall: proof check against root %s: %v", e.Root, e.Cause)
}

func (e *ProofError) Unwrap() error { return e.Cause }

// IsProof checks whether an error is a ProofError and returns it.
func IsProof(err error) (*ProofError, bool) {
	var p *ProofError
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}
