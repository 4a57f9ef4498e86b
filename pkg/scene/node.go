// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package scene holds scenes, their node graphs, and the scene container the
// engine hands to plugins.
package scene

import (
	"github.com/google/uuid"

	"github.com/emberforge/ember/pkg/pool"
)

// Kind identifies what a node represents.
type Kind uint8

// Node kinds known to the engine.
const (
	KindBase Kind = iota
	KindRigidBody
	KindCollider
	KindJoint
	KindCustom
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindRigidBody:
		return "rigid-body"
	case KindCollider:
		return "collider"
	case KindJoint:
		return "joint"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Vector3 is a plain 3-component vector.
type Vector3 struct {
	X, Y, Z float32
}

// Node is a single entry of a scene graph.
type Node struct {
	Name string
	Kind Kind

	// TypeID is set for nodes created through the serialization registry.
	TypeID uuid.UUID

	RigidBody *RigidBody
	Collider  *Collider
	Joint     *Joint

	// Properties carries free-form data for custom node types.
	Properties map[string]any

	parent   pool.Handle[Node]
	children []pool.Handle[Node]
}

// NewBase creates a plain named node.
func NewBase(name string) *Node {
	return &Node{Name: name, Kind: KindBase}
}

// Parent returns the handle of the node's parent, or none for the root and
// detached nodes.
func (n *Node) Parent() pool.Handle[Node] {
	return n.parent
}

// Children returns a copy of the node's child handles.
func (n *Node) Children() []pool.Handle[Node] {
	out := make([]pool.Handle[Node], len(n.children))
	copy(out, n.children)
	return out
}
