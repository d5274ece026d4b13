package runtime

import (
	"go.uber.org/zap"

	"github.com/voidproc/siv-as-coro/engine"
)

// Coroutine owns one execution context plus the state value shared with
// script code. The state lives inside the handle, so its address is valid
// for exactly as long as the context can resume.
//
// Coroutine values must not be copied: the context holds the embedded
// state's address. Always use them through the pointer NewCoroutine
// returns.
type Coroutine[S any] struct {
	ctx   *engine.Context
	decl  string
	state S
}

// NewCoroutine resolves declName in m and returns a handle prepared for
// its first Step, with the address of the embedded state bound as the
// function's sole argument.
//
// Resolution failure is not a fault: an empty module, an unknown name or
// an unregistered state type yield an invalid handle whose Runnable is
// false and whose Step does nothing.
func NewCoroutine[S any](m *Module, declName string, initial S) *Coroutine[S] {
	c := &Coroutine[S]{decl: declName, state: initial}

	if m.IsEmpty() {
		engine.Logger().Debug("coroutine over empty module",
			zap.String("decl", declName))
		return c
	}
	fn := m.functionByName(declName)
	if fn == nil {
		engine.Logger().Debug("coroutine declaration not found",
			zap.String("module", m.Name()), zap.String("decl", declName))
		return c
	}

	ctx := m.rt.eng.NewContext(fn)
	if err := ctx.BindArg(&c.state); err != nil {
		ctx.Release()
		engine.Logger().Warn("coroutine state binding failed",
			zap.String("module", m.Name()), zap.String("decl", declName), zap.Error(err))
		return c
	}
	c.ctx = ctx
	return c
}

// Runnable reports whether Step would advance the coroutine: the context
// exists and is prepared or suspended.
func (c *Coroutine[S]) Runnable() bool {
	return c.ctx != nil && c.ctx.Runnable()
}

// Status returns the lifecycle position; StatusUnbound for an invalid or
// closed handle.
func (c *Coroutine[S]) Status() engine.Status {
	if c.ctx == nil {
		return engine.StatusUnbound
	}
	return c.ctx.Status()
}

// Step resumes the coroutine once: script code runs until it yields or
// returns. Not runnable means no-op. A runtime fault inside the script
// finishes the coroutine; the fault is logged and swallowed here so a
// misbehaving coroutine cannot disrupt the host's tick loop.
func (c *Coroutine[S]) Step() {
	if c.ctx == nil {
		return
	}
	if err := c.ctx.Execute(); err != nil {
		engine.Logger().Warn("coroutine fault",
			zap.String("decl", c.decl), zap.Error(err))
	}
}

// State returns the shared state value. The host may read and write it
// freely between steps; script-side mutations are visible the moment
// Step returns.
func (c *Coroutine[S]) State() *S {
	return &c.state
}

// Close releases the execution context exactly once and leaves the handle
// inert. Idempotent; safe in any lifecycle state. The state value remains
// readable after Close.
func (c *Coroutine[S]) Close() {
	if c.ctx == nil {
		return
	}
	c.ctx.Release()
	c.ctx = nil
}
