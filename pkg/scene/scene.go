// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package scene

import "github.com/emberforge/ember/pkg/pool"

// Scene is a named node graph.
type Scene struct {
	Name    string
	Graph   *Graph
	Enabled bool
}

// New creates an enabled scene with an empty graph.
func New(name string) *Scene {
	return &Scene{Name: name, Graph: NewGraph(), Enabled: true}
}

// Container is the collection of live scenes owned by the engine.
//
// Container is not safe for concurrent use; the engine only touches it from
// the thread that drives plugins.
type Container struct {
	scenes *pool.Pool[Scene]
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{scenes: pool.New[Scene]()}
}

// Add stores s and returns its handle, or pool.None for a nil s.
func (c *Container) Add(s *Scene) pool.Handle[Scene] {
	return c.scenes.Spawn(s)
}

// Remove detaches the scene behind h and returns it, or nil.
func (c *Container) Remove(h pool.Handle[Scene]) *Scene {
	return c.scenes.Free(h)
}

// Get returns the scene behind h or nil.
func (c *Container) Get(h pool.Handle[Scene]) *Scene {
	return c.scenes.Borrow(h)
}

// Contains reports whether h resolves to a live scene.
func (c *Container) Contains(h pool.Handle[Scene]) bool {
	return c.scenes.IsValid(h)
}

// Len returns the number of live scenes.
func (c *Container) Len() int {
	return c.scenes.Len()
}

// Handles returns the handles of all live scenes.
func (c *Container) Handles() []pool.Handle[Scene] {
	return c.scenes.Handles()
}
