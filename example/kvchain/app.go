// Package kvchain implements a minimal key/value runtime for the
// lightcall executor stack. It demonstrates the full flow: a full
// node proves a call, a light client recomputes it from the proof.
//
// Runtime code format: a version line "kv-runtime/<spec-version>\n"
// followed by an opaque padding section, so the code blob is large
// enough to live in its own trie node.
package kvchain

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	lightcall "github.com/nichlor/lightcall"
	"github.com/nichlor/lightcall/state"
	"github.com/nichlor/lightcall/types"
)

// Compile-time interface check.
var _ lightcall.CodeExecutor = (*Runtime)(nil)

const codeMagic = "kv-runtime/"

// CodeBlob builds a runtime code blob at the given spec version. The
// 64-byte padding section keeps the blob above the trie's inline-node
// threshold, so proofs carry the code in its own node.
func CodeBlob(specVersion uint32) []byte {
	header := fmt.Sprintf("%s%d\n", codeMagic, specVersion)
	blob := make([]byte, 0, len(header)+64)
	blob = append(blob, header...)
	blob = append(blob, bytes.Repeat([]byte{0x6b, 0x76}, 32)...)
	return blob
}

// Runtime interprets kv-runtime code blobs. It dispatches two
// methods:
//
//	"storage_get": call data is a raw key; returns the stored value
//	(empty for an absent key).
//	"storage_put": call data is <keyLen byte><key><value>; writes the
//	pair into the overlay and returns the previous value.
//
// All state access goes through the supplied externalities, so the
// same Runtime serves full execution, proof recording and
// proof-restricted re-execution.
type Runtime struct{}

func (Runtime) Call(_ context.Context, code []byte, method string, callData []byte,
	ext state.Externalities, _ lightcall.TaskSpawner) ([]byte, error) {

	if _, err := parseVersion(code); err != nil {
		return nil, err
	}

	switch method {
	case "storage_get":
		return ext.StorageGet(callData)

	case "storage_put":
		if len(callData) < 1 {
			return nil, fmt.Errorf("kvchain: storage_put: empty call data")
		}
		keyLen := int(callData[0])
		if len(callData) < 1+keyLen {
			return nil, fmt.Errorf("kvchain: storage_put: truncated key")
		}
		key := callData[1 : 1+keyLen]
		value := callData[1+keyLen:]
		prev, err := ext.StorageGet(key)
		if err != nil {
			return nil, err
		}
		ext.StorageSet(key, value)
		return prev, nil

	default:
		return nil, fmt.Errorf("kvchain: method %q not found", method)
	}
}

func (Runtime) RuntimeVersion(code []byte) (types.RuntimeVersionInfo, error) {
	spec, err := parseVersion(code)
	if err != nil {
		return types.RuntimeVersionInfo{}, err
	}
	return types.RuntimeVersionInfo{
		SpecName:           "kv-runtime",
		ImplName:           "kvchain",
		SpecVersion:        spec,
		ImplVersion:        1,
		APIs:               []types.APIVersion{{ID: coreAPI, Version: 1}},
		TransactionVersion: 1,
	}, nil
}

var coreAPI = [8]byte{'k', 'v', '-', 'c', 'o', 'r', 'e', '1'}

func parseVersion(code []byte) (uint32, error) {
	if !bytes.HasPrefix(code, []byte(codeMagic)) {
		return 0, fmt.Errorf("kvchain: unrecognized runtime code")
	}
	rest := code[len(codeMagic):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return 0, fmt.Errorf("kvchain: malformed runtime code header")
	}
	spec, err := strconv.ParseUint(string(rest[:nl]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("kvchain: malformed spec version: %w", err)
	}
	return uint32(spec), nil
}

// PutCall encodes a storage_put call for the given pair.
func PutCall(key, value []byte) []byte {
	data := make([]byte, 0, 1+len(key)+len(value))
	data = append(data, byte(len(key)))
	data = append(data, key...)
	data = append(data, value...)
	return data
}
