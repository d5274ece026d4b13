package runtime

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/voidproc/siv-as-coro/engine"
)

// Module is a loaded script whose declarations can back coroutines.
// A nil *Module behaves as an empty module: nothing resolves from it.
type Module struct {
	rt *Runtime
	cm *engine.CompiledModule
}

// IsEmpty reports whether the module holds no compiled script.
func (m *Module) IsEmpty() bool {
	return m == nil || m.cm == nil
}

// Name returns the module's diagnostic name, or "" when empty.
func (m *Module) Name() string {
	if m.IsEmpty() {
		return ""
	}
	return m.cm.Name()
}

// functionByName resolves a declaration by exact name; nil when absent.
func (m *Module) functionByName(name string) *lua.LFunction {
	if m.IsEmpty() {
		return nil
	}
	return m.cm.FunctionByName(name)
}
