// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package window

// Kind identifies an event type.
type Kind string

// Event kinds.
const (
	KindKeyboardInput  Kind = "keyboard_input"
	KindResized        Kind = "resized"
	KindCloseRequested Kind = "close_requested"
	KindCursorMoved    Kind = "cursor_moved"
	KindFocused        Kind = "focused"
)

// Event is a platform event delivered to the window.
type Event interface {
	Kind() Kind
}

// Key names a keyboard key.
type Key string

// Common keys.
const (
	KeyEscape Key = "Escape"
	KeySpace  Key = "Space"
	KeyEnter  Key = "Enter"
)

// KeyboardInput reports a key press or release.
type KeyboardInput struct {
	Key     Key
	Pressed bool
}

// Kind implements Event.
func (KeyboardInput) Kind() Kind { return KindKeyboardInput }

// Resized reports the new inner size of the window.
type Resized struct {
	Width, Height uint32
}

// Kind implements Event.
func (Resized) Kind() Kind { return KindResized }

// CloseRequested reports that the user asked to close the window.
type CloseRequested struct{}

// Kind implements Event.
func (CloseRequested) Kind() Kind { return KindCloseRequested }

// CursorMoved reports the cursor position in window coordinates.
type CursorMoved struct {
	X, Y float64
}

// Kind implements Event.
func (CursorMoved) Kind() Kind { return KindCursorMoved }

// Focused reports a focus change.
type Focused struct {
	Focused bool
}

// Kind implements Event.
func (Focused) Kind() Kind { return KindFocused }
