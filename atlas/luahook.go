package atlas

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// NameHook rewrites a sprite's atlas name after decoding, before
// preprocessing and dedup. DESIGN.md's domain-stack table gives gopher-lua
// this role, mirroring the teacher's flashcart_script.go/fxdatascript.go
// pattern of exposing a narrow Go surface to user scripts rather than
// embedding a general scripting runtime.
type NameHook interface {
	Rewrite(name string) (string, error)
}

// LuaNameHook runs a single Lua function, loaded once from source, for
// every sprite name. The function receives the original name as its sole
// argument and must return a string.
type LuaNameHook struct {
	state *lua.LState
	fn    *lua.LFunction
}

// NewLuaNameHook compiles src and looks up a global function named
// funcName (conventionally "rename") to call for each sprite.
func NewLuaNameHook(src, funcName string) (*LuaNameHook, error) {
	l := lua.NewState()
	if err := l.DoString(src); err != nil {
		l.Close()
		return nil, fmt.Errorf("atlas: load name hook script: %w", err)
	}
	fn, ok := l.GetGlobal(funcName).(*lua.LFunction)
	if !ok {
		l.Close()
		return nil, fmt.Errorf("atlas: name hook script has no function %q", funcName)
	}
	return &LuaNameHook{state: l, fn: fn}, nil
}

func (h *LuaNameHook) Rewrite(name string) (string, error) {
	h.state.Push(h.fn)
	h.state.Push(lua.LString(name))
	if err := h.state.PCall(1, 1, nil); err != nil {
		return "", fmt.Errorf("atlas: name hook call: %w", err)
	}
	ret := h.state.Get(-1)
	h.state.Pop(1)
	s, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("atlas: name hook must return a string, got %s", ret.Type())
	}
	return string(s), nil
}

// Close releases the underlying Lua state. Safe to call once after the
// hook is no longer needed.
func (h *LuaNameHook) Close() {
	h.state.Close()
}
