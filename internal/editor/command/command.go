// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package command holds editor scene commands and the messages that carry
// them to the editor's command queue.
package command

import (
	"github.com/samber/oops"

	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
)

// Context is the scene a command operates on.
type Context struct {
	Scene *scene.Scene
}

// Command is an editor operation on a scene.
type Command interface {
	Name() string
	Execute(ctx *Context) error
}

// AddNodeCommand inserts a pre-built node into the scene graph.
type AddNodeCommand struct {
	node     *scene.Node
	parent   pool.Handle[scene.Node]
	handle   pool.Handle[scene.Node]
	executed bool
}

// NewAddNodeCommand returns a command that adds node under parent. A parent
// that is none or no longer valid resolves to the graph root.
func NewAddNodeCommand(node *scene.Node, parent pool.Handle[scene.Node]) *AddNodeCommand {
	return &AddNodeCommand{node: node, parent: parent}
}

// Name describes the command for logs and history.
func (c *AddNodeCommand) Name() string {
	if c.node == nil {
		return "Add Node"
	}
	return "Add Node: " + c.node.Name
}

// Node returns the node the command adds.
func (c *AddNodeCommand) Node() *scene.Node { return c.node }

// Parent returns the requested parent.
func (c *AddNodeCommand) Parent() pool.Handle[scene.Node] { return c.parent }

// Handle returns the handle of the added node, or none before Execute.
func (c *AddNodeCommand) Handle() pool.Handle[scene.Node] { return c.handle }

// Execute adds the node. A command adds its node at most once.
func (c *AddNodeCommand) Execute(ctx *Context) error {
	errb := oops.In("command").With("command", c.Name())
	if ctx == nil || ctx.Scene == nil || ctx.Scene.Graph == nil {
		return errb.Code("COMMAND_NO_SCENE").Errorf("no scene to operate on")
	}
	if c.node == nil {
		return errb.Code("COMMAND_NODE_NIL").Errorf("node is nil")
	}
	if c.executed {
		return errb.Code("COMMAND_EXECUTED").Errorf("command already executed")
	}
	c.handle = ctx.Scene.Graph.Add(c.node, c.parent)
	c.executed = true
	return nil
}
