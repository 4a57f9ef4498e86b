// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package luascript

import (
	"log/slog"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/emberforge/ember/pkg/errutil"
	"github.com/emberforge/ember/pkg/plugin"
	"github.com/emberforge/ember/pkg/pool"
	"github.com/emberforge/ember/pkg/scene"
)

type script struct {
	path     string
	state    *lua.LState
	scenes   []pool.Handle[scene.Scene]
	exit     bool
	disabled bool

	// ctx is the context of the callback in progress, nil between calls.
	ctx *plugin.Context
}

// call invokes the global fn if the script defines it. A Lua error disables
// the script.
func (s *script) call(ctx *plugin.Context, fn string, args ...lua.LValue) {
	if s.disabled {
		return
	}
	f := s.state.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return
	}

	s.ctx = ctx
	defer func() { s.ctx = nil }()

	if err := s.state.CallByParam(lua.P{Fn: f, NRet: 0, Protect: true}, args...); err != nil {
		s.disabled = true
		errutil.LogError(ctx.Logger, "script disabled", scriptError(s.path, fn, err), "script", s.path)
	}
}

func (s *script) takeExit() bool {
	exit := s.exit
	s.exit = false
	return exit
}

func (s *script) registerEngine() {
	L := s.state
	mod := L.NewTable()
	L.SetField(mod, "log", L.NewFunction(s.logFn))
	L.SetField(mod, "request_exit", L.NewFunction(s.requestExitFn))
	L.SetField(mod, "add_scene", L.NewFunction(s.addSceneFn))
	L.SetGlobal("engine", mod)
}

// engine.log(msg [, level])
func (s *script) logFn(L *lua.LState) int {
	msg := L.CheckString(1)
	level := L.OptString(2, "info")

	logger := slog.Default()
	if s.ctx != nil && s.ctx.Logger != nil {
		logger = s.ctx.Logger
	}
	logger = logger.With("script", s.path)
	switch level {
	case "debug":
		logger.Debug(msg)
	case "warn":
		logger.Warn(msg)
	case "error":
		logger.Error(msg)
	default:
		logger.Info(msg)
	}
	return 0
}

// engine.request_exit()
func (s *script) requestExitFn(*lua.LState) int {
	s.exit = true
	return 0
}

// engine.add_scene(name) returns the scene handle as a string.
func (s *script) addSceneFn(L *lua.LState) int {
	name := L.CheckString(1)
	if s.ctx == nil {
		L.RaiseError("engine.add_scene called outside a callback")
		return 0
	}
	h := s.ctx.Scenes.Add(scene.New(name))
	s.scenes = append(s.scenes, h)
	L.Push(lua.LString(h.String()))
	return 1
}

func scriptError(path, fn string, err error) error {
	return oops.In("luascript").Code("SCRIPT_ERROR").
		With("script", path).
		With("function", fn).
		Wrap(err)
}
