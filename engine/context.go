package engine

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/voidproc/siv-as-coro/errors"
)

// Context is one suspendable call frame bound to one script function.
// It owns a coroutine thread inside the engine's Lua state and must be
// released exactly once when no longer needed; Release is idempotent.
//
// A Context is exclusively owned: it is created by NewContext, handed to
// a single owner and never shared or copied.
type Context struct {
	eng    *LuaEngine
	th     *lua.LState
	cancel context.CancelFunc
	fn     *lua.LFunction
	arg    lua.LValue
	status Status
}

// NewContext creates a prepared execution context on fn. The context has
// not run yet; bind its argument before the first Execute.
func (e *LuaEngine) NewContext(fn *lua.LFunction) *Context {
	th, cancel := e.ls.NewThread()
	return &Context{
		eng:    e,
		th:     th,
		cancel: cancel,
		fn:     fn,
		status: StatusPrepared,
	}
}

// BindArg binds the address of a registered state value as the context's
// sole argument. ptr must be a pointer to a struct previously registered
// with RegisterType, and the pointed-to value must stay at its address
// until the context can no longer resume: script code dereferences it
// across suspensions.
//
// Binding is only allowed while the context is prepared; the bound address
// must not change once execution has started.
func (c *Context) BindArg(ptr any) error {
	if c.status != StatusPrepared {
		return errors.InvalidInput(errors.PhaseBind,
			"argument binding allowed only before first execution")
	}
	ud, err := c.eng.wrapState(ptr)
	if err != nil {
		return err
	}
	c.arg = ud
	return nil
}

// Runnable reports whether Execute would advance the context.
func (c *Context) Runnable() bool {
	return c.status == StatusPrepared || c.status == StatusSuspended
}

// Status returns the context's lifecycle position.
func (c *Context) Status() Status {
	return c.status
}

// Execute resumes the context. Script code runs until it calls yield()
// (the context becomes suspended), returns (finished), or raises a
// runtime fault (finished; the fault is returned for observation). On a
// non-runnable context Execute is a no-op.
func (c *Context) Execute() error {
	if !c.Runnable() {
		return nil
	}

	var args []lua.LValue
	if c.status == StatusPrepared && c.arg != nil {
		args = append(args, c.arg)
	}

	st, err, _ := c.eng.ls.Resume(c.th, c.fn, args...)
	switch st {
	case lua.ResumeYield:
		c.status = StatusSuspended
	case lua.ResumeOK:
		c.status = StatusFinished
	case lua.ResumeError:
		c.status = StatusFinished
		return errors.RuntimeFault(err, "script fault in context")
	}
	return nil
}

// Release returns the context's resources to the engine. Safe to call in
// any lifecycle state and more than once; only the first call has effect.
func (c *Context) Release() {
	if c.status == StatusReleased {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.th = nil
	c.fn = nil
	c.arg = nil
	c.status = StatusReleased
}
