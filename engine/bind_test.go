package engine

import (
	stderrors "errors"
	"testing"

	"github.com/voidproc/siv-as-coro/errors"
)

type point struct {
	X, Y float64
}

type spriteState struct {
	Pos     point `lua:"pos"`
	Frame   int
	Name    string
	Visible bool
	Elapsed float64
	Debug   string `lua:"-"`
}

func newSpriteEngine(t *testing.T) *LuaEngine {
	t.Helper()
	e := New()
	t.Cleanup(e.Close)
	if err := e.RegisterType("Point", point{}); err != nil {
		t.Fatalf("register Point: %v", err)
	}
	if err := e.RegisterType("SpriteState", spriteState{}); err != nil {
		t.Fatalf("register SpriteState: %v", err)
	}
	return e
}

func TestRegisterType_RejectsReferenceFields(t *testing.T) {
	e := New()
	defer e.Close()

	type bad struct {
		Tags []string
	}
	err := e.RegisterType("Bad", bad{})
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindUnsupported}) {
		t.Errorf("RegisterType = %v, want unsupported kind", err)
	}
}

func TestRegisterType_NestedMustBeRegisteredFirst(t *testing.T) {
	e := New()
	defer e.Close()

	type outer struct {
		Pos point
	}
	err := e.RegisterType("Outer", outer{})
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindRegistration}) {
		t.Errorf("RegisterType = %v, want registration error", err)
	}
}

func TestRegisterType_Duplicate(t *testing.T) {
	e := New()
	defer e.Close()

	if err := e.RegisterType("Point", point{}); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := e.RegisterType("Point2", point{})
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindRegistration}) {
		t.Errorf("duplicate RegisterType = %v, want registration error", err)
	}
}

func TestRegisterType_NonStructSample(t *testing.T) {
	e := New()
	defer e.Close()

	if err := e.RegisterType("N", 42); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
		t.Errorf("RegisterType(int) = %v, want invalid_input", err)
	}
}

func TestStateFields_ScriptReadsAndWrites(t *testing.T) {
	e := newSpriteEngine(t)

	mod, err := e.CompileString("m", `
		function Update(s)
			s.pos.x = s.pos.x + 10
			s.pos.y = s.pos.y - 1
			s.frame = s.frame + 1
			s.name = s.name .. "!"
			s.visible = not s.visible
			s.elapsed = s.elapsed + 0.5
		end
	`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	st := spriteState{Pos: point{X: 5, Y: 100}, Frame: 1, Name: "cat", Visible: true}
	ctx := e.NewContext(mod.FunctionByName("Update"))
	defer ctx.Release()
	if err := ctx.BindArg(&st); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := ctx.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if st.Pos.X != 15 || st.Pos.Y != 99 {
		t.Errorf("Pos = %+v, want {15 99}", st.Pos)
	}
	if st.Frame != 2 {
		t.Errorf("Frame = %d, want 2", st.Frame)
	}
	if st.Name != "cat!" {
		t.Errorf("Name = %q, want %q", st.Name, "cat!")
	}
	if st.Visible {
		t.Error("Visible should have been toggled off")
	}
	if st.Elapsed != 0.5 {
		t.Errorf("Elapsed = %v, want 0.5", st.Elapsed)
	}
}

func TestStateFields_HiddenAndUnknown(t *testing.T) {
	e := newSpriteEngine(t)

	// Both the tag-hidden field and a nonexistent one must fault the script,
	// not reach into the struct.
	for _, src := range []string{
		`function Update(s) s.debug = "x" end`,
		`function Update(s) s.bogus = 1 end`,
	} {
		mod, err := e.CompileString("m", src)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		var st spriteState
		ctx := e.NewContext(mod.FunctionByName("Update"))
		if err := ctx.BindArg(&st); err != nil {
			t.Fatalf("bind: %v", err)
		}
		if err := ctx.Execute(); err == nil {
			t.Errorf("script %q should have faulted", src)
		}
		ctx.Release()
	}
}

func TestStateFields_NestedAliasing(t *testing.T) {
	e := newSpriteEngine(t)

	// A nested field taken into a local must alias the parent's memory,
	// not copy it.
	mod, err := e.CompileString("m", `
		function Fold(s)
			local p = s.pos
			p.x = 77
		end
	`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var st spriteState
	ctx := e.NewContext(mod.FunctionByName("Fold"))
	defer ctx.Release()
	if err := ctx.BindArg(&st); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := ctx.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if st.Pos.X != 77 {
		t.Errorf("Pos.X = %v, want 77 (sub-userdata must alias parent memory)", st.Pos.X)
	}
}

func TestBindArg_UnregisteredType(t *testing.T) {
	e := New()
	defer e.Close()

	mod, err := e.CompileString("m", `function F(s) end`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	type stranger struct{ X int }
	var st stranger
	ctx := e.NewContext(mod.FunctionByName("F"))
	defer ctx.Release()
	err = ctx.BindArg(&st)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBind, Kind: errors.KindRegistration}) {
		t.Errorf("BindArg = %v, want bind/registration error", err)
	}
}

func TestBindArg_NonPointer(t *testing.T) {
	e := newSpriteEngine(t)

	mod, err := e.CompileString("m", `function F(s) end`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ctx := e.NewContext(mod.FunctionByName("F"))
	defer ctx.Release()
	err = ctx.BindArg(spriteState{})
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
		t.Errorf("BindArg(value) = %v, want invalid_input", err)
	}
}
