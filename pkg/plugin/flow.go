// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package plugin

// ControlFlow is an advisory directive a plugin sets in Update or OnOSEvent.
type ControlFlow uint8

// Control flow directives.
const (
	// ControlFlowPoll keeps the loop running. This is the zero value.
	ControlFlowPoll ControlFlow = iota
	// ControlFlowWait lets the host idle until the next event or tick.
	ControlFlowWait
	// ControlFlowExit asks the host to shut down.
	ControlFlowExit
)

// String returns the string representation of a ControlFlow.
func (f ControlFlow) String() string {
	switch f {
	case ControlFlowWait:
		return "wait"
	case ControlFlowPoll:
		return "poll"
	case ControlFlowExit:
		return "exit"
	default:
		return "unknown"
	}
}

// RequestExit sets the directive to ControlFlowExit.
func (f *ControlFlow) RequestExit() {
	*f = ControlFlowExit
}

// IsExit reports whether exit was requested.
func (f ControlFlow) IsExit() bool {
	return f == ControlFlowExit
}

// Merge combines the answers of two plugins: exit wins over poll, and poll
// wins over wait.
func (f ControlFlow) Merge(other ControlFlow) ControlFlow {
	if other.priority() > f.priority() {
		return other
	}
	return f
}

func (f ControlFlow) priority() int {
	switch f {
	case ControlFlowWait:
		return 0
	case ControlFlowPoll:
		return 1
	case ControlFlowExit:
		return 2
	default:
		return -1
	}
}
