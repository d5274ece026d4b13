package engine

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/voidproc/siv-as-coro/errors"
)

// YieldFuncName is the global under which the suspend primitive is
// registered. Script code calls yield() to return control to the host
// until the next resume.
const YieldFuncName = "yield"

// LuaEngine wraps a single gopher-lua state. All builtins and state types
// must be registered before the first module is compiled; compilation
// seals the registration surface so bindings stay stable for the process
// lifetime.
//
// A LuaEngine is not safe for concurrent use.
type LuaEngine struct {
	ls     *lua.LState
	types  map[reflect.Type]*typeBinding
	sealed bool
}

// New creates an engine and registers the yield() suspend primitive.
func New() *LuaEngine {
	ls := lua.NewState()
	e := &LuaEngine{
		ls:    ls,
		types: make(map[reflect.Type]*typeBinding),
	}
	ls.SetGlobal(YieldFuncName, ls.NewFunction(yieldBuiltin))
	return e
}

// Close releases the underlying Lua state. Contexts created from this
// engine must not be executed afterwards.
func (e *LuaEngine) Close() {
	e.ls.Close()
}

// RegisterFunc registers a global builtin callable from script code.
// Must be called before any module is compiled.
func (e *LuaEngine) RegisterFunc(name string, fn lua.LGFunction) error {
	if e.sealed {
		return errors.New(errors.PhaseRegister, errors.KindRegistration,
			"cannot register %q after a module was compiled", name)
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "builtin name cannot be empty")
	}
	e.ls.SetGlobal(name, e.ls.NewFunction(fn))
	return nil
}

// yieldBuiltin suspends the currently active execution context. Invoked
// outside any coroutine it is a no-op, never an error.
func yieldBuiltin(L *lua.LState) int {
	if L.G == nil || L == L.G.MainThread || L.G.CurrentThread == nil {
		return 0
	}
	return L.Yield()
}

// CompiledModule is a compiled script chunk together with the environment
// table its top-level code populated. Function lookups resolve against
// that environment, so modules do not share declaration namespaces.
type CompiledModule struct {
	eng  *LuaEngine
	env  *lua.LTable
	name string
}

// CompileFile compiles and runs the chunk at path inside a fresh module
// environment.
func (e *LuaEngine) CompileFile(path string) (*CompiledModule, error) {
	fn, err := e.ls.LoadFile(path)
	if err != nil {
		return nil, errors.Compile("load "+path, err)
	}
	return e.runChunk(path, fn)
}

// CompileString compiles and runs source as a module chunk. The name is
// used only for diagnostics.
func (e *LuaEngine) CompileString(name, source string) (*CompiledModule, error) {
	fn, err := e.ls.LoadString(source)
	if err != nil {
		return nil, errors.Compile("load "+name, err)
	}
	return e.runChunk(name, fn)
}

// runChunk executes the chunk with a dedicated environment whose reads
// fall back to the engine globals. Declarations land in the environment;
// builtins such as yield stay reachable.
func (e *LuaEngine) runChunk(name string, fn *lua.LFunction) (*CompiledModule, error) {
	env := e.ls.NewTable()
	mt := e.ls.NewTable()
	e.ls.SetField(mt, "__index", e.ls.G.Global)
	e.ls.SetMetatable(env, mt)
	e.ls.SetFEnv(fn, env)

	e.ls.Push(fn)
	if err := e.ls.PCall(0, 0, nil); err != nil {
		return nil, errors.Compile("run module body of "+name, err)
	}

	e.sealed = true
	Logger().Debug("module compiled", zap.String("module", name))
	return &CompiledModule{eng: e, env: env, name: name}, nil
}

// Name returns the module's diagnostic name.
func (m *CompiledModule) Name() string {
	return m.name
}

// FunctionByName resolves a declaration by exact name. Returns nil when
// the name is absent or not a function.
func (m *CompiledModule) FunctionByName(name string) *lua.LFunction {
	if m == nil || m.env == nil {
		return nil
	}
	fn, ok := m.env.RawGetString(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	return fn
}
