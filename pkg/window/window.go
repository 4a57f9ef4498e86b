// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package window describes the application window and the platform events
// it receives.
package window

// Window holds metadata of the main application window.
type Window struct {
	Title   string
	Width   uint32
	Height  uint32
	Focused bool
}

// New creates a window description.
func New(title string, width, height uint32) *Window {
	return &Window{Title: title, Width: width, Height: height, Focused: true}
}

// AspectRatio returns width divided by height, or 0 for a zero height.
func (w *Window) AspectRatio() float32 {
	if w.Height == 0 {
		return 0
	}
	return float32(w.Width) / float32(w.Height)
}

// Apply updates window metadata from events that describe window state.
// Other events are ignored.
func (w *Window) Apply(ev Event) {
	switch e := ev.(type) {
	case Resized:
		w.Width, w.Height = e.Width, e.Height
	case Focused:
		w.Focused = e.Focused
	}
}
