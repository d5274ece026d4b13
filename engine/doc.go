// Package engine provides the low-level embedding of the Lua scripting engine.
//
// This package wraps gopher-lua to provide the minimum surface the coroutine
// bridge needs: compiling script sources into isolated modules, registering
// host builtins and plain-data state types before compilation, and driving
// re-entrant execution contexts that can suspend mid-run and resume later.
//
// # Architecture
//
// The engine package provides three main types:
//
//	LuaEngine      - Owns one Lua state; registration and compilation entry point
//	CompiledModule - A compiled chunk with its own environment table
//	Context        - One suspendable call frame bound to one script function
//
// # Context Lifecycle
//
//	prepared ──Execute──▶ suspended ──Execute──▶ suspended | finished
//	finished, released: terminal; Execute is a no-op
//
// A Context is prepared on a resolved function, optionally binds the address
// of a host-owned state value as its sole argument, and is resumed one
// suspend-to-suspend slice at a time. Script code suspends voluntarily by
// calling the global yield() builtin, which the engine registers at startup.
//
// # State Types
//
// RegisterType exposes a plain-data Go struct to script code. Field access
// goes through a userdata wrapping a pointer into host memory, so script
// writes are visible to the host the moment a resume returns, and host
// writes between resumes are visible to the script on the next resume.
// Reference-typed fields (pointers, maps, slices, channels, funcs) are
// rejected at registration.
//
// # Thread Safety
//
// LuaEngine and everything created from it must be confined to a single
// goroutine. Execution is never concurrent: the engine runs one context at
// a time and control transfers cooperatively between host and script.
//
// Most users should use the runtime package for a simpler API.
// This package is for advanced use cases requiring direct control.
package engine
