package runtime

import (
	"testing"

	"github.com/voidproc/siv-as-coro/engine"
)

const growScript = `
	function Grow(s)
		while true do
			s.x = s.x + 50
			yield()
		end
	end
`

func TestPool_SpawnStepReapCycle(t *testing.T) {
	rt := newCoroRuntime(t)
	mod := loadSource(t, rt, growScript)

	var handles []*Coroutine[coroState]
	p := NewPool(PoolConfig[coroState]{
		SpawnEvery: 1,
		Spawn: func() *Coroutine[coroState] {
			c := NewCoroutine(mod, "Grow", coroState{})
			handles = append(handles, c)
			return c
		},
		Reap: func(s *coroState) bool { return s.X > 100 },
	})
	defer p.Close()

	p.Tick() // spawn tick for h1: present but not stepped
	if p.Len() != 1 {
		t.Fatalf("Len after tick 1 = %d, want 1", p.Len())
	}
	h1 := handles[0]
	if got := h1.State().X; got != 0 {
		t.Fatalf("h1.X after spawn tick = %v, want 0 (first step is next tick)", got)
	}

	p.Tick() // h1 steps to 50, h2 spawned
	if got := h1.State().X; got != 50 {
		t.Errorf("h1.X after tick 2 = %v, want 50", got)
	}

	p.Tick() // h1 at 100: not > 100, stays
	if got := h1.State().X; got != 100 {
		t.Errorf("h1.X after tick 3 = %v, want 100", got)
	}
	if p.Len() != 3 {
		t.Errorf("Len after tick 3 = %d, want 3", p.Len())
	}

	p.Tick() // h1 at 150: reaped on the third tick after its spawn tick
	if got := h1.State().X; got != 150 {
		t.Errorf("h1.X after tick 4 = %v, want 150", got)
	}
	if h1.Status() != engine.StatusUnbound {
		t.Errorf("h1 status = %v, want unbound (closed by reap)", h1.Status())
	}
	if p.Len() != 3 {
		t.Errorf("Len after tick 4 = %d, want 3 (4 spawned, 1 reaped)", p.Len())
	}
}

func TestPool_FaultingHandleDoesNotDisruptSiblings(t *testing.T) {
	rt := newCoroRuntime(t)
	mod := loadSource(t, rt, growScript+`
		function Boom(s)
			error("first step fault")
		end
	`)

	boom := NewCoroutine(mod, "Boom", coroState{})
	grow := NewCoroutine(mod, "Grow", coroState{})

	p := NewPool(PoolConfig[coroState]{})
	defer p.Close()
	p.Add(boom)
	p.Add(grow)

	p.Tick()
	if boom.Status() != engine.StatusFinished {
		t.Errorf("boom status = %v, want finished after exactly one step", boom.Status())
	}
	if got := grow.State().X; got != 50 {
		t.Errorf("grow.X = %v, want 50 (sibling stepped normally)", got)
	}

	p.Tick() // the next tick completes normally for the survivor
	if got := grow.State().X; got != 100 {
		t.Errorf("grow.X = %v, want 100", got)
	}
	if boom.Status() != engine.StatusFinished {
		t.Errorf("boom status = %v, want still finished", boom.Status())
	}
}

func TestPool_OnStepSeesFreshState(t *testing.T) {
	rt := newCoroRuntime(t)
	mod := loadSource(t, rt, growScript)

	var seen []float64
	p := NewPool(PoolConfig[coroState]{
		OnStep: func(c *Coroutine[coroState]) {
			seen = append(seen, c.State().X)
		},
	})
	defer p.Close()

	p.Add(NewCoroutine(mod, "Grow", coroState{}))
	p.Add(NewCoroutine(mod, "Grow", coroState{X: 1000}))

	p.Tick()
	p.Tick()

	want := []float64{50, 1050, 100, 1100}
	if len(seen) != len(want) {
		t.Fatalf("OnStep calls = %d, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestPool_SpawnInterval(t *testing.T) {
	rt := newCoroRuntime(t)
	mod := loadSource(t, rt, growScript)

	p := NewPool(PoolConfig[coroState]{
		SpawnEvery: 3,
		SpawnBatch: func() int { return 2 },
		Spawn: func() *Coroutine[coroState] {
			return NewCoroutine(mod, "Grow", coroState{})
		},
	})
	defer p.Close()

	for i := 0; i < 2; i++ {
		p.Tick()
	}
	if p.Len() != 0 {
		t.Errorf("Len after 2 ticks = %d, want 0 (interval not elapsed)", p.Len())
	}
	p.Tick()
	if p.Len() != 2 {
		t.Errorf("Len after 3 ticks = %d, want 2 (one batch)", p.Len())
	}
	for i := 0; i < 3; i++ {
		p.Tick()
	}
	if p.Len() != 4 {
		t.Errorf("Len after 6 ticks = %d, want 4 (two batches)", p.Len())
	}
}

func TestPool_CloseReleasesAll(t *testing.T) {
	rt := newCoroRuntime(t)
	mod := loadSource(t, rt, growScript)

	h := NewCoroutine(mod, "Grow", coroState{})
	p := NewPool(PoolConfig[coroState]{})
	p.Add(h)
	p.Tick()

	p.Close()
	if p.Len() != 0 {
		t.Errorf("Len after Close = %d, want 0", p.Len())
	}
	if h.Status() != engine.StatusUnbound {
		t.Errorf("handle status = %v, want unbound after pool close", h.Status())
	}
}

func TestPool_EachVisitsInsertionOrder(t *testing.T) {
	rt := newCoroRuntime(t)
	mod := loadSource(t, rt, growScript)

	a := NewCoroutine(mod, "Grow", coroState{X: 1})
	b := NewCoroutine(mod, "Grow", coroState{X: 2})
	p := NewPool(PoolConfig[coroState]{})
	defer p.Close()
	p.Add(a)
	p.Add(b)

	var order []float64
	p.Each(func(c *Coroutine[coroState]) {
		order = append(order, c.State().X)
	})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Each order = %v, want [1 2]", order)
	}
}
