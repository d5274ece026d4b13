// Package sivascoro bridges a host application's per-frame update loop and
// scripted coroutines running in an embedded Lua engine.
//
// A scripted routine can pause itself at arbitrary points with yield() and
// be resumed on a later host tick, while host and script share one mutable
// state value: the script receives its address as the coroutine's sole
// argument, so neither side ever works on a copy.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	sivascoro/        Root package (documentation only)
//	├── runtime/      High-level API: Runtime, Module, Coroutine, Pool
//	├── engine/       Low-level gopher-lua embedding: contexts, bindings
//	├── errors/       Structured error types
//	└── cmd/catsim/   Terminal demo host driving cat sprites from a script
//
// # Quick Start
//
// Load a script and drive a coroutine:
//
//	rt := runtime.New()
//	defer rt.Close()
//
//	if err := rt.RegisterStateType("CatState", CatState{}); err != nil {
//	    log.Fatal(err)
//	}
//	mod, err := rt.LoadScript("scripts/cats.lua")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	coro := runtime.NewCoroutine(mod, "UpdateCat", CatState{})
//	for coro.Runnable() {
//	    coro.Step()              // run until the script yields or returns
//	    fmt.Println(coro.State()) // mutations are already visible
//	}
//
// # Cooperative Execution
//
// Coroutines are cooperatively multiplexed on a single logical thread:
// one step per host tick, no preemption, no internal timeout. Because host
// and script never run at the same instant, the shared state needs no
// locking.
package sivascoro
