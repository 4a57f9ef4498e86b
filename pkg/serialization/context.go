// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package serialization provides the engine's shared type registry. Plugins
// extend it during registration with custom node and script types, and the
// engine uses it to re-create those values from their persistent ids.
package serialization

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/emberforge/ember/pkg/scene"
)

// NodeConstructor creates a fresh node of a registered type.
type NodeConstructor func() *scene.Node

// ScriptConstructor creates a fresh script instance of a registered type.
type ScriptConstructor func() any

// TypeInfo describes a registered type.
type TypeInfo struct {
	ID   uuid.UUID
	Name string
}

type nodeEntry struct {
	info TypeInfo
	ctor NodeConstructor
}

type scriptEntry struct {
	info TypeInfo
	ctor ScriptConstructor
}

// Context is the type registry. It is shared by pointer between the engine
// and every plugin, and is safe for concurrent use.
type Context struct {
	mu      sync.RWMutex
	nodes   map[uuid.UUID]nodeEntry
	scripts map[uuid.UUID]scriptEntry
}

// NewContext creates an empty registry.
func NewContext() *Context {
	return &Context{
		nodes:   make(map[uuid.UUID]nodeEntry),
		scripts: make(map[uuid.UUID]scriptEntry),
	}
}

// RegisterNode adds a node type. Registering the same id under the same name
// again replaces the constructor; a different name is a conflict.
func (c *Context) RegisterNode(id uuid.UUID, name string, ctor NodeConstructor) error {
	if err := validateType(id, name, ctor == nil); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.nodes[id]; ok && existing.info.Name != name {
		return conflict("node", id, existing.info.Name, name)
	}
	c.nodes[id] = nodeEntry{info: TypeInfo{ID: id, Name: name}, ctor: ctor}
	return nil
}

// RegisterScript adds a script type with the same rules as RegisterNode.
func (c *Context) RegisterScript(id uuid.UUID, name string, ctor ScriptConstructor) error {
	if err := validateType(id, name, ctor == nil); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.scripts[id]; ok && existing.info.Name != name {
		return conflict("script", id, existing.info.Name, name)
	}
	c.scripts[id] = scriptEntry{info: TypeInfo{ID: id, Name: name}, ctor: ctor}
	return nil
}

// NewNode creates a node of the registered type id. The returned node has
// TypeID set; nodes from constructors that leave Kind as base are marked custom.
func (c *Context) NewNode(id uuid.UUID) (*scene.Node, error) {
	c.mu.RLock()
	entry, ok := c.nodes[id]
	c.mu.RUnlock()
	if !ok {
		return nil, oops.In("serialization").Code("TYPE_UNKNOWN").With("id", id.String()).With("kind", "node").
			Errorf("node type %s is not registered", id)
	}

	n := entry.ctor()
	if n == nil {
		return nil, oops.In("serialization").Code("TYPE_CONSTRUCTOR_NIL").With("id", id.String()).
			Errorf("constructor for node type %q returned nil", entry.info.Name)
	}
	n.TypeID = id
	if n.Kind == scene.KindBase {
		n.Kind = scene.KindCustom
	}
	return n, nil
}

// NewScript creates a script of the registered type id.
func (c *Context) NewScript(id uuid.UUID) (any, error) {
	c.mu.RLock()
	entry, ok := c.scripts[id]
	c.mu.RUnlock()
	if !ok {
		return nil, oops.In("serialization").Code("TYPE_UNKNOWN").With("id", id.String()).With("kind", "script").
			Errorf("script type %s is not registered", id)
	}
	return entry.ctor(), nil
}

// NodeTypes lists registered node types sorted by name.
func (c *Context) NodeTypes() []TypeInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]TypeInfo, 0, len(c.nodes))
	for _, e := range c.nodes {
		out = append(out, e.info)
	}
	sortInfos(out)
	return out
}

// ScriptTypes lists registered script types sorted by name.
func (c *Context) ScriptTypes() []TypeInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]TypeInfo, 0, len(c.scripts))
	for _, e := range c.scripts {
		out = append(out, e.info)
	}
	sortInfos(out)
	return out
}

func validateType(id uuid.UUID, name string, nilCtor bool) error {
	switch {
	case id == uuid.Nil:
		return oops.In("serialization").Code("TYPE_ID_NIL").With("name", name).Errorf("type id must not be nil")
	case name == "":
		return oops.In("serialization").Code("TYPE_NAME_EMPTY").With("id", id.String()).Errorf("type name is required")
	case nilCtor:
		return oops.In("serialization").Code("TYPE_CONSTRUCTOR_NIL").With("id", id.String()).Errorf("constructor is required")
	}
	return nil
}

func conflict(kind string, id uuid.UUID, existing, name string) error {
	return oops.In("serialization").Code("TYPE_CONFLICT").
		With("id", id.String()).
		With("kind", kind).
		With("existing", existing).
		Errorf("%s type %s already registered as %q, cannot register as %q", kind, id, existing, name)
}

func sortInfos(infos []TypeInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name == infos[j].Name {
			return infos[i].ID.String() < infos[j].ID.String()
		}
		return infos[i].Name < infos[j].Name
	})
}
