package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voidproc/siv-as-coro/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#D2691E")).
			Padding(0, 1)

	catStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

const (
	catGlyph    = "@"
	reapMargin  = 8.0
	statusLines = 2
)

type keyMap struct {
	Pause key.Binding
	Spawn key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		Spawn: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "spawn batch"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Spawn, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Spawn, k.Quit}}
}

// scene is the drawable region in terminal cells. Spawn and reap closures
// share it so resizes apply to future spawns immediately.
type scene struct {
	w, h int
}

type simModel struct {
	pool   *runtime.Pool[CatState]
	spawn  func() *runtime.Coroutine[CatState]
	scene  *scene
	keys   keyMap
	help   help.Model
	fps    int
	paused bool
}

func newSimModel(mod *runtime.Module, fps, spawnTicks int) *simModel {
	sc := &scene{w: 80, h: 24 - statusLines}

	spawn := func() *runtime.Coroutine[CatState] {
		return runtime.NewCoroutine(mod, "UpdateCat", CatState{
			Pos: Vec2{
				X: rand.Float64() * float64(sc.w),
				Y: float64(sc.h) + 2,
			},
		})
	}

	pool := runtime.NewPool(runtime.PoolConfig[CatState]{
		Spawn:      spawn,
		SpawnEvery: spawnTicks,
		SpawnBatch: func() int { return 2 + rand.IntN(4) },
		Reap: func(s *CatState) bool {
			return s.Pos.X < -reapMargin || s.Pos.X > float64(sc.w)+reapMargin ||
				s.Pos.Y < -reapMargin || s.Pos.Y > float64(sc.h)+reapMargin
		},
	})

	return &simModel{
		pool:  pool,
		spawn: spawn,
		scene: sc,
		keys:  defaultKeyMap(),
		help:  help.New(),
		fps:   fps,
	}
}

type frameMsg time.Time

func (m *simModel) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *simModel) Init() tea.Cmd {
	return m.frame()
}

func (m *simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.scene.w = msg.Width
		m.scene.h = msg.Height - statusLines
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.pool.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Spawn):
			m.pool.Add(m.spawn())
		}

	case frameMsg:
		if !m.paused {
			m.pool.Tick()
		}
		return m, m.frame()
	}
	return m, nil
}

func (m *simModel) View() string {
	w, h := m.scene.w, m.scene.h
	if w < 1 || h < 1 {
		return ""
	}

	canvas := make([][]bool, h)
	for i := range canvas {
		canvas[i] = make([]bool, w)
	}
	m.pool.Each(func(c *runtime.Coroutine[CatState]) {
		x, y := int(c.State().Pos.X), int(c.State().Pos.Y)
		if x >= 0 && x < w && y >= 0 && y < h {
			canvas[y][x] = true
		}
	})

	var b strings.Builder
	cat := catStyle.Render(catGlyph)
	for _, row := range canvas {
		for _, occupied := range row {
			if occupied {
				b.WriteString(cat)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	status := statusStyle.Render(fmt.Sprintf("cats: %d", m.pool.Len()))
	if m.paused {
		status += "  " + pausedStyle.Render("paused")
	}
	b.WriteString(titleStyle.Render("catsim"))
	b.WriteString("  ")
	b.WriteString(status)
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func runTUI(mod *runtime.Module, fps, spawnTicks int) error {
	m := newSimModel(mod, fps, spawnTicks)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.pool.Close()
	return err
}
