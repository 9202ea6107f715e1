package types

// ExecutionStrategy is the caller's preference for how a call should
// be executed when both a native and a bytecode implementation of the
// runtime are available.
type ExecutionStrategy uint8

const (
	// StrategyNativeWhenPossible prefers the native implementation
	// when its version matches the on-chain code.
	StrategyNativeWhenPossible ExecutionStrategy = iota
	// StrategyAlwaysWasm always executes the on-chain bytecode.
	StrategyAlwaysWasm
	// StrategyNativeElseWasm tries native first and falls back to
	// bytecode on failure.
	StrategyNativeElseWasm
	// StrategyBoth executes both and compares the results.
	StrategyBoth
)

func (s ExecutionStrategy) String() string {
	switch s {
	case StrategyNativeWhenPossible:
		return "NativeWhenPossible"
	case StrategyAlwaysWasm:
		return "AlwaysWasm"
	case StrategyNativeElseWasm:
		return "NativeElseWasm"
	case StrategyBoth:
		return "Both"
	default:
		return "unknown"
	}
}

// ExecutionManager is the resolved per-call execution policy passed
// down to a delegate executor. Unlike ExecutionStrategy it is not a
// caller preference: wrappers may override it (the light-client
// executor always forces ManagerNativeWhenPossible).
type ExecutionManager uint8

const (
	ManagerNativeWhenPossible ExecutionManager = iota
	ManagerAlwaysWasm
	ManagerBoth
)

func (m ExecutionManager) String() string {
	switch m {
	case ManagerNativeWhenPossible:
		return "NativeWhenPossible"
	case ManagerAlwaysWasm:
		return "AlwaysWasm"
	case ManagerBoth:
		return "Both"
	default:
		return "unknown"
	}
}

// Extensions carries opaque host extensions made available to the
// runtime for the duration of one call. Keys are extension names.
type Extensions map[string]any
