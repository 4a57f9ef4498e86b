// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package ui provides the engine's user interface root: a widget tree and a
// queue of messages addressed to widgets.
package ui

import "github.com/emberforge/ember/pkg/pool"

// WidgetKind identifies a widget type.
type WidgetKind uint8

// Widget kinds.
const (
	KindCanvas WidgetKind = iota
	KindMenuItem
	KindText
)

// Widget is a node of the UI tree.
type Widget struct {
	Kind WidgetKind
	Text string

	parent   pool.Handle[Widget]
	children []pool.Handle[Widget]
}

// Parent returns the parent widget handle.
func (w *Widget) Parent() pool.Handle[Widget] { return w.parent }

// Children returns a copy of the child handles.
func (w *Widget) Children() []pool.Handle[Widget] {
	out := make([]pool.Handle[Widget], len(w.children))
	copy(out, w.children)
	return out
}

// UserInterface is the UI root. It is not safe for concurrent use.
type UserInterface struct {
	widgets *pool.Pool[Widget]
	root    pool.Handle[Widget]
	queue   []Message
}

// New creates a UI with an empty root canvas.
func New() *UserInterface {
	u := &UserInterface{widgets: pool.New[Widget]()}
	u.root = u.widgets.Spawn(&Widget{Kind: KindCanvas})
	return u
}

// Root returns the root canvas handle.
func (u *UserInterface) Root() pool.Handle[Widget] {
	return u.root
}

// Widget returns the widget behind h or nil.
func (u *UserInterface) Widget(h pool.Handle[Widget]) *Widget {
	return u.widgets.Borrow(h)
}

// Len returns the number of widgets including the root.
func (u *UserInterface) Len() int {
	return u.widgets.Len()
}

// BuildContext returns a context for building widgets into this UI.
func (u *UserInterface) BuildContext() *BuildContext {
	return &BuildContext{ui: u}
}

// FindByText returns the first widget (depth-first) whose text equals text.
func (u *UserInterface) FindByText(text string) (pool.Handle[Widget], bool) {
	return u.find(u.root, text)
}

func (u *UserInterface) find(h pool.Handle[Widget], text string) (pool.Handle[Widget], bool) {
	w := u.widgets.Borrow(h)
	if w == nil {
		return pool.None[Widget](), false
	}
	if w.Text == text && h != u.root {
		return h, true
	}
	for _, c := range w.children {
		if found, ok := u.find(c, text); ok {
			return found, true
		}
	}
	return pool.None[Widget](), false
}

// RemoveWidget deletes h and its subtree. The root cannot be removed.
func (u *UserInterface) RemoveWidget(h pool.Handle[Widget]) {
	if h == u.root {
		return
	}
	w := u.widgets.Borrow(h)
	if w == nil {
		return
	}
	u.unlink(h, w)
	u.free(h)
}

func (u *UserInterface) free(h pool.Handle[Widget]) {
	w := u.widgets.Free(h)
	if w == nil {
		return
	}
	for _, c := range w.children {
		u.free(c)
	}
}

func (u *UserInterface) spawn(w *Widget) pool.Handle[Widget] {
	h := u.widgets.Spawn(w)
	u.link(h, u.root)
	return h
}

func (u *UserInterface) link(child, parent pool.Handle[Widget]) {
	c := u.widgets.Borrow(child)
	p := u.widgets.Borrow(parent)
	if c == nil || p == nil {
		return
	}
	u.unlink(child, c)
	c.parent = parent
	p.children = append(p.children, child)
}

func (u *UserInterface) unlink(h pool.Handle[Widget], w *Widget) {
	p := u.widgets.Borrow(w.parent)
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == h {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	w.parent = pool.None[Widget]()
}

// BuildContext creates widgets inside a UserInterface.
type BuildContext struct {
	ui *UserInterface
}

// CreateMenuItem creates a menu item labelled text and moves items under it.
// The new item is attached to the root until something adopts it.
func (ctx *BuildContext) CreateMenuItem(text string, items []pool.Handle[Widget]) pool.Handle[Widget] {
	h := ctx.ui.spawn(&Widget{Kind: KindMenuItem, Text: text})
	for _, item := range items {
		ctx.ui.link(item, h)
	}
	return h
}

// CreateText creates a text widget attached to the root.
func (ctx *BuildContext) CreateText(text string) pool.Handle[Widget] {
	return ctx.ui.spawn(&Widget{Kind: KindText, Text: text})
}
