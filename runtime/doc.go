// Package runtime provides the high-level API for script-driven coroutines.
//
// # Quick Start
//
//	rt := runtime.New()
//	defer rt.Close()
//
//	// Register shared state types and extra builtins first
//	if err := rt.RegisterStateType("CatState", CatState{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load a script
//	mod, err := rt.LoadScript("scripts/cats.lua")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resolve a coroutine over a declared function
//	coro := runtime.NewCoroutine(mod, "UpdateCat", CatState{Pos: spawnPos})
//
//	// One step per host frame
//	for coro.Runnable() {
//	    coro.Step()
//	    render(coro.State())
//	}
//
// Script code receives the state value as its sole argument and suspends
// itself by calling yield(); every mutation it performs is visible on
// State() the moment Step returns, and host writes between steps are
// visible to the script on the next step.
//
// # Pools
//
// Pool drives many coroutines from a single per-frame Tick: it spawns new
// handles on an interval, steps every live handle once, and reaps handles
// whose state satisfies a host predicate. See PoolConfig.
//
// # Failure Behavior
//
// Script compile failures surface as errors from LoadScript. A missing
// declaration name or an unregistered state type yields an invalid handle
// whose Runnable is false and whose Step does nothing. A runtime fault
// inside a stepping script finishes that coroutine and is logged, but
// never propagates: one misbehaving coroutine cannot disrupt its siblings.
//
// # Concurrency
//
// Everything created from one Runtime shares one engine and must stay on
// a single goroutine. Host and script never run at the same instant, so
// the shared state needs no locking.
package runtime
