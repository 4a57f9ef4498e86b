// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package pool provides a generational object pool addressed by typed handles.
package pool

import "fmt"

// Handle addresses an object in a Pool[T]. The zero value is the "none" handle.
//
// Indices are 1-based internally so that the zero Handle never resolves.
type Handle[T any] struct {
	index      uint32
	generation uint32
}

// None returns the handle that never points at an object.
func None[T any]() Handle[T] {
	return Handle[T]{}
}

// NewHandle builds a handle from its raw parts. Mostly useful for tests and decoding.
func NewHandle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{index: index, generation: generation}
}

// IsNone reports whether h is the none handle.
func (h Handle[T]) IsNone() bool {
	return h.index == 0
}

// Index returns the raw slot index (1-based, 0 for none).
func (h Handle[T]) Index() uint32 { return h.index }

// Generation returns the slot generation the handle was issued for.
func (h Handle[T]) Generation() uint32 { return h.generation }

// String implements fmt.Stringer.
func (h Handle[T]) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

type slot[T any] struct {
	value      *T
	generation uint32
}

// Pool stores objects in reusable slots. A freed slot bumps its generation,
// so handles issued before the free stop resolving.
//
// Pool is not safe for concurrent use.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// New creates an empty pool.
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Spawn stores v and returns its handle. A nil v is not stored and yields
// None.
func (p *Pool[T]) Spawn(v *T) Handle[T] {
	if v == nil {
		return None[T]()
	}
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		s := &p.slots[idx]
		s.value = v
		p.count++
		return Handle[T]{index: idx + 1, generation: s.generation}
	}
	p.slots = append(p.slots, slot[T]{value: v, generation: 1})
	p.count++
	return Handle[T]{index: uint32(len(p.slots)), generation: 1}
}

// Borrow returns the object behind h, or nil if h is none, freed, or stale.
func (p *Pool[T]) Borrow(h Handle[T]) *T {
	s := p.lookup(h)
	if s == nil {
		return nil
	}
	return s.value
}

// IsValid reports whether h currently resolves to an object.
func (p *Pool[T]) IsValid(h Handle[T]) bool {
	return p.lookup(h) != nil
}

// Free removes the object behind h and returns it. It returns nil for
// handles that do not resolve.
func (p *Pool[T]) Free(h Handle[T]) *T {
	s := p.lookup(h)
	if s == nil {
		return nil
	}
	v := s.value
	s.value = nil
	s.generation++
	p.free = append(p.free, h.index-1)
	p.count--
	return v
}

// Len returns the number of live objects.
func (p *Pool[T]) Len() int {
	return p.count
}

// Handles returns the handles of all live objects in slot order.
func (p *Pool[T]) Handles() []Handle[T] {
	out := make([]Handle[T], 0, p.count)
	for i, s := range p.slots {
		if s.value != nil {
			out = append(out, Handle[T]{index: uint32(i + 1), generation: s.generation})
		}
	}
	return out
}

func (p *Pool[T]) lookup(h Handle[T]) *slot[T] {
	if h.index == 0 || int(h.index) > len(p.slots) {
		return nil
	}
	s := &p.slots[h.index-1]
	if s.value == nil || s.generation != h.generation {
		return nil
	}
	return s
}
