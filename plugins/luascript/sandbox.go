// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package luascript

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

type library struct {
	name string
	fn   lua.LGFunction
}

// safeLibraries are opened in every script state. os, io, debug and package
// are never opened.
var safeLibraries = []library{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// unsafeBaseFunctions reach the filesystem or compile arbitrary chunks.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// StateFactory creates sandboxed Lua states.
type StateFactory struct {
	libraries []library
}

// NewStateFactory creates a factory that opens only the safe libraries.
func NewStateFactory() *StateFactory {
	return &StateFactory{libraries: safeLibraries}
}

// NewState creates a fresh sandboxed state bound to ctx. Cancelling ctx
// aborts a running script.
func (f *StateFactory) NewState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.In("luascript").With("library", lib.name).Hint("failed to open library").Wrap(err)
		}
	}
	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}
	if ctx != nil {
		L.SetContext(ctx)
	}
	return L, nil
}
