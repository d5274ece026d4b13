package runtime

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/voidproc/siv-as-coro/engine"
)

// Runtime owns one scripting engine and loads script modules into it.
// Not safe for concurrent use.
type Runtime struct {
	eng *engine.LuaEngine
}

// New creates a runtime with the yield() suspend primitive installed.
func New() *Runtime {
	return &Runtime{eng: engine.New()}
}

// Close releases the engine. Coroutines created from this runtime must
// not be stepped afterwards.
func (r *Runtime) Close() {
	r.eng.Close()
}

// RegisterStateType exposes a plain-data struct to script code under the
// given type name. Must be called BEFORE loading scripts; field bindings
// are fixed for the process lifetime once the first module is compiled.
func (r *Runtime) RegisterStateType(name string, sample any) error {
	return r.eng.RegisterType(name, sample)
}

// RegisterFunc registers an extra global builtin (random helpers, easing
// functions and the like). Must be called before loading scripts.
func (r *Runtime) RegisterFunc(name string, fn lua.LGFunction) error {
	return r.eng.RegisterFunc(name, fn)
}

// Engine exposes the underlying engine for advanced use.
func (r *Runtime) Engine() *engine.LuaEngine {
	return r.eng
}

// LoadScript compiles the script at path into a module with its own
// declaration namespace.
func (r *Runtime) LoadScript(path string) (*Module, error) {
	cm, err := r.eng.CompileFile(path)
	if err != nil {
		return nil, err
	}
	return &Module{rt: r, cm: cm}, nil
}

// LoadScriptSource compiles source as a module; name is used only for
// diagnostics.
func (r *Runtime) LoadScriptSource(name, source string) (*Module, error) {
	cm, err := r.eng.CompileString(name, source)
	if err != nil {
		return nil, err
	}
	return &Module{rt: r, cm: cm}, nil
}
