// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package menu contains the editor's main menu sections.
package menu

import (
	"github.com/emberforge/ember/internal/editor/command"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/ui"
)

// Physics menu item labels.
const (
	LabelPhysics        = "Physics"
	LabelRigidBody      = "Rigid Body"
	LabelCollider       = "Collider"
	LabelRevoluteJoint  = "Revolute Joint"
	LabelBallJoint      = "Ball Joint"
	LabelPrismaticJoint = "Prismatic Joint"
	LabelFixedJoint     = "Fixed Joint"
)

type physicsItem struct {
	label string
	build func() *scene.Node
}

// physicsItems lists the menu entries in display order.
var physicsItems = []physicsItem{
	{LabelRigidBody, func() *scene.Node { return scene.NewRigidBody(LabelRigidBody) }},
	{LabelCollider, func() *scene.Node { return scene.NewCollider(LabelCollider, scene.DefaultCuboid()) }},
	{LabelRevoluteJoint, func() *scene.Node { return scene.NewJoint(LabelRevoluteJoint, scene.DefaultRevoluteJoint()) }},
	{LabelBallJoint, func() *scene.Node { return scene.NewJoint(LabelBallJoint, scene.BallJoint{}) }},
	{LabelPrismaticJoint, func() *scene.Node { return scene.NewJoint(LabelPrismaticJoint, scene.DefaultPrismaticJoint()) }},
	{LabelFixedJoint, func() *scene.Node { return scene.NewJoint(LabelFixedJoint, scene.FixedJoint{}) }},
}

// PhysicsMenu is the "Physics" menu. Clicking one of its items queues a
// command that adds the matching physics node to the edited scene.
type PhysicsMenu struct {
	// Menu is the top-level "Physics" item.
	Menu pool.Handle[ui.Widget]

	items map[pool.Handle[ui.Widget]]func() *scene.Node
}

// NewPhysicsMenu builds the menu and its items.
func NewPhysicsMenu(ctx *ui.BuildContext) *PhysicsMenu {
	m := &PhysicsMenu{items: make(map[pool.Handle[ui.Widget]]func() *scene.Node, len(physicsItems))}
	children := make([]pool.Handle[ui.Widget], 0, len(physicsItems))
	for _, item := range physicsItems {
		h := ctx.CreateMenuItem(item.label, nil)
		m.items[h] = item.build
		children = append(children, h)
	}
	m.Menu = ctx.CreateMenuItem(LabelPhysics, children)
	return m
}

// HandleUIMessage reacts to clicks on the menu's items by sending an
// add-node command for parent. Any other message is ignored. The send
// blocks until sender accepts the message.
func (m *PhysicsMenu) HandleUIMessage(msg ui.Message, sender chan<- command.Message, parent pool.Handle[scene.Node]) {
	data, ok := msg.MenuItem()
	if !ok || data != ui.MenuItemClick {
		return
	}
	build, ok := m.items[msg.Destination]
	if !ok {
		return
	}
	sender <- command.DoSceneCommand(command.NewAddNodeCommand(build(), parent))
}
