// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package editor is a headless scene editor. It owns the edited scene and
// the main menu, turns menu clicks into scene commands, and switches plugins
// in and out of play mode.
package editor

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/emberforge/ember/internal/editor/command"
	"github.com/emberforge/ember/internal/editor/menu"
	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/pkg/errutil"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
	"github.com/emberforge/ember/pkg/ui"
)

// commandQueueSize bounds the number of commands queued between pumps.
const commandQueueSize = 64

// Editor edits one scene.
type Editor struct {
	ui       *ui.UserInterface
	physics  *menu.PhysicsMenu
	scenes   *scene.Container
	scene    pool.Handle[scene.Scene]
	commands chan command.Message
	selected pool.Handle[scene.Node]
	history  []string
	playing  bool
	logger   *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an editor that builds its menu in u and edits a new scene
// called name, added to scenes.
func New(scenes *scene.Container, u *ui.UserInterface, name string, opts ...Option) *Editor {
	e := &Editor{
		ui:       u,
		scenes:   scenes,
		commands: make(chan command.Message, commandQueueSize),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.physics = menu.NewPhysicsMenu(u.BuildContext())
	e.scene = scenes.Add(scene.New(name))
	return e
}

// Scene returns the edited scene.
func (e *Editor) Scene() *scene.Scene {
	return e.scenes.Get(e.scene)
}

// SceneHandle returns the handle of the edited scene.
func (e *Editor) SceneHandle() pool.Handle[scene.Scene] {
	return e.scene
}

// PhysicsMenu returns the physics menu.
func (e *Editor) PhysicsMenu() *menu.PhysicsMenu {
	return e.physics
}

// Select makes h the parent of nodes added by later commands. Passing
// pool.None selects the root.
func (e *Editor) Select(h pool.Handle[scene.Node]) {
	e.selected = h
}

// Selected returns the current selection.
func (e *Editor) Selected() pool.Handle[scene.Node] {
	return e.selected
}

// History returns the names of executed commands, oldest first.
func (e *Editor) History() []string {
	return append([]string(nil), e.history...)
}

// Playing reports whether plugins run in play mode.
func (e *Editor) Playing() bool {
	return e.playing
}

// Click posts a click on the menu item labelled label. It takes effect on
// the next Pump.
func (e *Editor) Click(label string) error {
	h, ok := e.ui.FindByText(label)
	if !ok {
		return oops.In("editor").Code("EDITOR_ITEM_NOT_FOUND").With("label", label).
			Errorf("no menu item labelled %q", label)
	}
	e.ui.Click(h)
	return nil
}

// Pump dispatches every pending UI message to the menus and executes the
// commands they queue. Failed commands are logged and returned joined.
func (e *Editor) Pump() error {
	var errs []error
	for {
		msg, ok := e.ui.Poll()
		if !ok {
			break
		}
		e.physics.HandleUIMessage(msg, e.commands, e.selected)
		errs = append(errs, e.drain()...)
	}
	return errors.Join(errs...)
}

func (e *Editor) drain() []error {
	var errs []error
	for {
		select {
		case msg := <-e.commands:
			if err := e.execute(msg); err != nil {
				errs = append(errs, err)
			}
		default:
			return errs
		}
	}
}

func (e *Editor) execute(msg command.Message) error {
	s := e.Scene()
	if s == nil {
		return oops.In("editor").Code("EDITOR_SCENE_GONE").Errorf("edited scene was removed")
	}
	if err := msg.Command.Execute(&command.Context{Scene: s}); err != nil {
		errutil.LogError(e.logger, "scene command failed", err, "message_id", msg.ID.String())
		return err
	}
	e.history = append(e.history, msg.Command.Name())
	e.logger.Debug("scene command executed", "command", msg.Command.Name(), "message_id", msg.ID.String())
	return nil
}

// EnterPlayMode initializes the host's plugins with the edited scene as
// their override.
func (e *Editor) EnterPlayMode(h *host.Host) error {
	if e.playing {
		return oops.In("editor").Code("EDITOR_ALREADY_PLAYING").Errorf("already in play mode")
	}
	h.Init(e.scene)
	e.playing = true
	e.logger.Info("entered play mode", "scene", e.scene.String())
	return nil
}

// LeavePlayMode deinitializes the host's plugins and resets them to their
// default state.
func (e *Editor) LeavePlayMode(h *host.Host) error {
	if !e.playing {
		return oops.In("editor").Code("EDITOR_NOT_PLAYING").Errorf("not in play mode")
	}
	h.Deinit()
	h.Reset()
	e.playing = false
	e.logger.Info("left play mode")
	return nil
}
