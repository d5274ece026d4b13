package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/voidproc/siv-as-coro/engine"
	"github.com/voidproc/siv-as-coro/runtime"
)

// Vec2 is a 2D position in scene cells.
type Vec2 struct {
	X, Y float64
}

// CatState is the state value shared between the host and one cat's
// script coroutine.
type CatState struct {
	Pos     Vec2 `lua:"pos"`
	Elapsed float64
}

func main() {
	var (
		script    = flag.String("script", "scripts/cats.lua", "Path to the cat behavior script")
		fps       = flag.Int("fps", 30, "Frames (ticks) per second")
		spawnSec  = flag.Float64("spawn", 0.2, "Seconds between spawn batches")
		debugLogs = flag.Bool("debug", false, "Log script faults and engine events to stderr")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "catsim needs a terminal")
		os.Exit(1)
	}

	if *debugLogs {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		engine.SetLogger(logger)
	}

	if err := run(*script, *fps, *spawnSec); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scriptPath string, fps int, spawnSec float64) error {
	rt := runtime.New()
	defer rt.Close()

	if err := rt.RegisterStateType("Vec2", Vec2{}); err != nil {
		return err
	}
	if err := rt.RegisterStateType("CatState", CatState{}); err != nil {
		return err
	}
	// Extra builtin for the scripts: uniform random in [lo, hi).
	err := rt.RegisterFunc("frand", func(L *lua.LState) int {
		lo := float64(L.CheckNumber(1))
		hi := float64(L.CheckNumber(2))
		L.Push(lua.LNumber(lo + rand.Float64()*(hi-lo)))
		return 1
	})
	if err != nil {
		return err
	}

	mod, err := rt.LoadScript(scriptPath)
	if err != nil {
		return err
	}

	spawnTicks := int(spawnSec * float64(fps))
	if spawnTicks < 1 {
		spawnTicks = 1
	}
	return runTUI(mod, fps, spawnTicks)
}
