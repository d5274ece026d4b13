package runtime

// PoolConfig configures a Pool's spawn-step-reap cycle.
type PoolConfig[S any] struct {
	// Spawn creates one new coroutine handle. nil disables spawning.
	Spawn func() *Coroutine[S]

	// SpawnEvery is the number of ticks between spawn batches; the first
	// batch is spawned on the SpawnEvery-th tick. 0 disables spawning.
	SpawnEvery int

	// SpawnBatch returns how many handles to create per batch.
	// nil means one.
	SpawnBatch func() int

	// Reap reports whether a handle should be removed from the pool.
	// Checked after all steps of a tick; reaped handles are closed.
	// nil keeps every handle forever.
	Reap func(*S) bool

	// OnStep is invoked after each handle's step with its fresh state,
	// for rendering or inspection. May be nil.
	OnStep func(*Coroutine[S])
}

// Pool drives a set of live coroutine handles from a per-frame Tick.
// Handles spawned during a tick are stepped for the first time on the
// following tick, so a fresh handle is never rendered mid-slice.
//
// Tick must not be re-entered; a Pool belongs to a single goroutine.
type Pool[S any] struct {
	cfg        PoolConfig[S]
	entries    []*Coroutine[S]
	sinceSpawn int
}

// NewPool creates a pool with no live handles.
func NewPool[S any](cfg PoolConfig[S]) *Pool[S] {
	return &Pool[S]{cfg: cfg}
}

// Tick runs one frame: spawn a batch if the interval elapsed, step every
// handle that was live at the start of the tick (invoking OnStep after
// each), then close and remove every handle whose state satisfies Reap.
func (p *Pool[S]) Tick() {
	var spawned []*Coroutine[S]
	if p.cfg.Spawn != nil && p.cfg.SpawnEvery > 0 {
		p.sinceSpawn++
		if p.sinceSpawn >= p.cfg.SpawnEvery {
			p.sinceSpawn = 0
			n := 1
			if p.cfg.SpawnBatch != nil {
				n = p.cfg.SpawnBatch()
			}
			for i := 0; i < n; i++ {
				if c := p.cfg.Spawn(); c != nil {
					spawned = append(spawned, c)
				}
			}
		}
	}

	// Snapshot before inserting this tick's spawns: new handles take
	// their first step on the next tick.
	live := p.entries
	for _, c := range live {
		c.Step()
		if p.cfg.OnStep != nil {
			p.cfg.OnStep(c)
		}
	}
	p.entries = append(p.entries, spawned...)

	if p.cfg.Reap == nil {
		return
	}
	kept := p.entries[:0]
	for _, c := range p.entries {
		if p.cfg.Reap(c.State()) {
			c.Close()
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(p.entries); i++ {
		p.entries[i] = nil
	}
	p.entries = kept
}

// Add inserts a handle created outside the spawn cycle. It is stepped
// from the next Tick.
func (p *Pool[S]) Add(c *Coroutine[S]) {
	if c != nil {
		p.entries = append(p.entries, c)
	}
}

// Len returns the number of live handles.
func (p *Pool[S]) Len() int {
	return len(p.entries)
}

// Each calls fn for every live handle, in insertion order.
func (p *Pool[S]) Each(fn func(*Coroutine[S])) {
	for _, c := range p.entries {
		fn(c)
	}
}

// Close closes every live handle and empties the pool.
func (p *Pool[S]) Close() {
	for i, c := range p.entries {
		c.Close()
		p.entries[i] = nil
	}
	p.entries = p.entries[:0]
}
