// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package host

// State is the lifecycle state of a plugin inside the host.
type State int

// Plugin states. A plugin moves Unregistered → Registered → Active and then
// alternates between Active and Inactive.
const (
	StateUnregistered State = iota
	StateRegistered
	StateActive
	StateInactive
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// canInit reports whether a plugin in state s may receive OnInit.
func (s State) canInit() bool {
	return s == StateRegistered || s == StateInactive
}
