// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package scene

// BodyType selects how a rigid body participates in simulation.
type BodyType uint8

// Rigid body types.
const (
	BodyDynamic BodyType = iota
	BodyStatic
	BodyKinematicPositionBased
	BodyKinematicVelocityBased
)

// RigidBody holds rigid body parameters.
type RigidBody struct {
	Type BodyType
	Mass float32
}

// ShapeKind identifies a collider shape.
type ShapeKind uint8

// Collider shapes.
const (
	ShapeCuboid ShapeKind = iota
	ShapeBall
	ShapeCapsule
)

// ColliderShape describes collider geometry. Only the fields relevant to
// Kind are meaningful.
type ColliderShape struct {
	Kind        ShapeKind
	HalfExtents Vector3
	Radius      float32
	HalfHeight  float32
}

// DefaultCuboid returns a unit cube shape.
func DefaultCuboid() ColliderShape {
	return ColliderShape{Kind: ShapeCuboid, HalfExtents: Vector3{X: 0.5, Y: 0.5, Z: 0.5}}
}

// Collider holds collider parameters.
type Collider struct {
	Shape    ColliderShape
	Friction float32
}

// JointParams is implemented by RevoluteJoint, BallJoint, PrismaticJoint and FixedJoint.
type JointParams interface {
	JointName() string
}

// RevoluteJoint allows rotation around a single axis.
type RevoluteJoint struct {
	Axis Vector3
}

// JointName implements JointParams.
func (RevoluteJoint) JointName() string { return "revolute" }

// BallJoint allows free rotation around the anchor.
type BallJoint struct{}

// JointName implements JointParams.
func (BallJoint) JointName() string { return "ball" }

// PrismaticJoint allows translation along a single axis.
type PrismaticJoint struct {
	Axis Vector3
}

// JointName implements JointParams.
func (PrismaticJoint) JointName() string { return "prismatic" }

// FixedJoint locks both bodies together.
type FixedJoint struct{}

// JointName implements JointParams.
func (FixedJoint) JointName() string { return "fixed" }

// DefaultRevoluteJoint returns a revolute joint around the Y axis.
func DefaultRevoluteJoint() RevoluteJoint {
	return RevoluteJoint{Axis: Vector3{Y: 1}}
}

// DefaultPrismaticJoint returns a prismatic joint along the X axis.
func DefaultPrismaticJoint() PrismaticJoint {
	return PrismaticJoint{Axis: Vector3{X: 1}}
}

// Joint connects two bodies. Body handles are resolved by the physics
// backend and are not stored here.
type Joint struct {
	Params JointParams
}

// NewRigidBody creates a dynamic rigid body node with unit mass.
func NewRigidBody(name string) *Node {
	return &Node{
		Name:      name,
		Kind:      KindRigidBody,
		RigidBody: &RigidBody{Type: BodyDynamic, Mass: 1},
	}
}

// NewCollider creates a collider node with the given shape.
func NewCollider(name string, shape ColliderShape) *Node {
	return &Node{
		Name:     name,
		Kind:     KindCollider,
		Collider: &Collider{Shape: shape, Friction: 0.5},
	}
}

// NewJoint creates a joint node. A nil params value yields a ball joint.
func NewJoint(name string, params JointParams) *Node {
	if params == nil {
		params = BallJoint{}
	}
	return &Node{
		Name:  name,
		Kind:  KindJoint,
		Joint: &Joint{Params: params},
	}
}
