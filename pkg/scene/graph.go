// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package scene

import (
	"fmt"
	"strings"

	"github.com/emberforge/ember/pkg/pool"
)

// rootName is the name of the implicit root node of every graph.
const rootName = "__ROOT__"

// Graph is a tree of nodes stored in a pool. Every graph has a root node
// that cannot be removed.
type Graph struct {
	nodes *pool.Pool[Node]
	root  pool.Handle[Node]
}

// NewGraph creates a graph containing only the root node.
func NewGraph() *Graph {
	g := &Graph{nodes: pool.New[Node]()}
	g.root = g.nodes.Spawn(NewBase(rootName))
	return g
}

// Root returns the root node handle.
func (g *Graph) Root() pool.Handle[Node] {
	return g.root
}

// Add inserts n under parent. If parent does not resolve, n is attached to
// the root. A nil n is ignored and yields pool.None.
func (g *Graph) Add(n *Node, parent pool.Handle[Node]) pool.Handle[Node] {
	if n == nil {
		return pool.None[Node]()
	}
	if !g.nodes.IsValid(parent) {
		parent = g.root
	}
	n.parent = parent
	n.children = nil
	h := g.nodes.Spawn(n)
	p := g.nodes.Borrow(parent)
	p.children = append(p.children, h)
	return h
}

// Get returns the node behind h or nil.
func (g *Graph) Get(h pool.Handle[Node]) *Node {
	return g.nodes.Borrow(h)
}

// Contains reports whether h resolves to a node of this graph.
func (g *Graph) Contains(h pool.Handle[Node]) bool {
	return g.nodes.IsValid(h)
}

// Remove deletes h and its whole subtree. The root cannot be removed.
// It returns the number of removed nodes.
func (g *Graph) Remove(h pool.Handle[Node]) int {
	if h == g.root || !g.nodes.IsValid(h) {
		return 0
	}
	n := g.nodes.Borrow(h)
	if p := g.nodes.Borrow(n.parent); p != nil {
		for i, c := range p.children {
			if c == h {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	return g.removeSubtree(h)
}

func (g *Graph) removeSubtree(h pool.Handle[Node]) int {
	n := g.nodes.Free(h)
	if n == nil {
		return 0
	}
	removed := 1
	for _, c := range n.children {
		removed += g.removeSubtree(c)
	}
	return removed
}

// Len returns the number of nodes including the root.
func (g *Graph) Len() int {
	return g.nodes.Len()
}

// Walk visits nodes depth-first starting at the root. Returning false from
// fn stops the walk.
func (g *Graph) Walk(fn func(h pool.Handle[Node], n *Node, depth int) bool) {
	g.walk(g.root, 0, fn)
}

func (g *Graph) walk(h pool.Handle[Node], depth int, fn func(pool.Handle[Node], *Node, int) bool) bool {
	n := g.nodes.Borrow(h)
	if n == nil {
		return true
	}
	if !fn(h, n, depth) {
		return false
	}
	for _, c := range n.children {
		if !g.walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// FindByName returns the first node named name in depth-first order.
func (g *Graph) FindByName(name string) (pool.Handle[Node], bool) {
	found := pool.None[Node]()
	g.Walk(func(h pool.Handle[Node], n *Node, _ int) bool {
		if n.Name == name {
			found = h
			return false
		}
		return true
	})
	return found, !found.IsNone()
}

// Dump renders the graph as an indented tree, one node per line.
func (g *Graph) Dump() string {
	var b strings.Builder
	g.Walk(func(_ pool.Handle[Node], n *Node, depth int) bool {
		fmt.Fprintf(&b, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Name, n.Kind)
		return true
	})
	return b.String()
}
