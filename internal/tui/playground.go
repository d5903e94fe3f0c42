// Package tui is the interactive terminal playground: keys become input
// intents, the scene advances at a fixed rate, and the world is rendered in
// presentation-space pixels with a tuning panel alongside.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/actor"
	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
	"github.com/solthas/platsim/internal/motion"
	"github.com/solthas/platsim/internal/world"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	viewW = 72
	viewH = 20

	// A key press keeps its direction alive for this many ticks, since
	// terminals report repeats but never releases.
	holdTicks = 7

	frameDt = 1.0 / 60.0
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// eventFeed collects recent bus events for the side panel. It lives behind a
// pointer so the value-copied model shares one feed.
type eventFeed struct {
	lines []string
}

func (f *eventFeed) push(line string) {
	f.lines = append(f.lines, line)
	if len(f.lines) > 5 {
		f.lines = f.lines[len(f.lines)-5:]
	}
}

type model struct {
	cfg   *config.Config
	scene *actor.Scene
	hero  *actor.Guarded
	level []world.PlatformSpec
	feed  *eventFeed

	axis      int
	axisTicks int
	jumpTicks int
	duckTicks int
	jumpQueue bool

	ticks  int
	width  int
	height int
}

func newModel(cfg *config.Config, level []world.PlatformSpec, spawn cp.Vector) (model, error) {
	scene, err := actor.NewScene(cfg, level)
	if err != nil {
		return model{}, err
	}
	hero, err := scene.Spawn("hero", spawn)
	if err != nil {
		scene.Close()
		return model{}, err
	}

	feed := &eventFeed{}
	scene.Bus().Subscribe(event.EventJumpPerformed, func(evt any) {
		jp := evt.(event.JumpPerformed)
		feed.push(fmt.Sprintf("jump %d", jp.JumpIndex))
	})
	scene.Bus().Subscribe(event.EventLanded, func(any) { feed.push("landed") })
	scene.Bus().Subscribe(event.EventPlatformBroken, func(any) { feed.push("platform broke") })

	return model{
		cfg:    cfg,
		scene:  scene,
		hero:   hero,
		level:  level,
		feed:   feed,
		width:  80,
		height: 24,
	}, nil
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m = m.advance()
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.scene.Close()
		return m, tea.Quit
	case "left", "a":
		m.axis = -1
		m.axisTicks = holdTicks
	case "right", "d":
		m.axis = 1
		m.axisTicks = holdTicks
	case " ", "up", "w":
		m.jumpQueue = true
		m.jumpTicks = holdTicks * 2
	case "down", "s":
		m.duckTicks = holdTicks
	case "r":
		m.hero.Revive()
		m.feed.push("revived")
	}
	return m, nil
}

func (m model) advance() model {
	in := motion.Intent{}
	if m.axisTicks > 0 {
		in.Axis = m.axis
		m.axisTicks--
	}
	if m.jumpQueue {
		in.JumpJustPressed = true
		m.jumpQueue = false
	}
	if m.jumpTicks > 0 {
		in.JumpHeld = true
		m.jumpTicks--
	}
	if m.duckTicks > 0 {
		in.DuckHeld = true
		m.duckTicks--
	}

	if err := m.scene.Frame(frameDt, map[string]motion.Intent{"hero": in}); err != nil {
		m.feed.push(fmt.Sprintf("step error: %v", err))
	}
	m.ticks++
	return m
}

func (m model) View() string {
	canvas := m.drawWorld()

	var rows []string
	for _, line := range canvas {
		rows = append(rows, string(line))
	}
	view := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Render(strings.Join(rows, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, view, m.panel())
}

// drawWorld renders level geometry and the hero onto a rune canvas. The
// camera follows the hero; everything is positioned in pixels, scaled down
// to cells.
func (m model) drawWorld() [][]rune {
	canvas := make([][]rune, viewH)
	for y := range canvas {
		canvas[y] = make([]rune, viewW)
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	conv := m.scene.Converter()
	heroPx := m.hero.Actor().PixelPosition()

	// One cell is 10x20 pixels; terminal cells are about twice as tall
	// as wide, so the world keeps its proportions.
	const cellW, cellH = 10.0, 20.0
	originX := heroPx.X() - viewW/2*cellW
	originY := heroPx.Y() - viewH/2*cellH

	plot := func(px, py float64, c rune) {
		x := int((px - originX) / cellW)
		y := int((py - originY) / cellH)
		if x >= 0 && x < viewW && y >= 0 && y < viewH {
			canvas[y][x] = c
		}
	}

	for _, spec := range m.level {
		glyph := '#'
		switch spec.Kind {
		case world.KindMoving:
			glyph = '='
		case world.KindBreakable:
			glyph = '%'
		case world.KindDynamic:
			glyph = 'o'
		}
		// Outline the box by sampling its pixel extent.
		topLeft := conv.VecToPixels(cp.Vector{X: spec.Center.X - spec.HalfW, Y: spec.Center.Y - spec.HalfH})
		botRight := conv.VecToPixels(cp.Vector{X: spec.Center.X + spec.HalfW, Y: spec.Center.Y + spec.HalfH})
		for px := topLeft.X(); px <= botRight.X(); px += cellW {
			for py := topLeft.Y(); py <= botRight.Y(); py += cellH {
				plot(px, py, glyph)
			}
		}
	}

	plot(heroPx.X(), heroPx.Y(), '@')
	return canvas
}

func (m model) panel() string {
	hero := m.hero.Actor()
	snap := hero.Snapshot()
	pos := hero.Position()

	status := green.Render("active")
	if m.hero.Benched() {
		status = red.Render("benched (r to revive)")
	}
	grounded := yellow.Render("airborne")
	if hero.IsGrounded() {
		grounded = green.Render("grounded")
	}

	var b strings.Builder
	b.WriteString(cyan.Render("platsim playground") + "\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n", dim.Render("status"), status))
	b.WriteString(fmt.Sprintf("%s %s\n\n", dim.Render("ground"), grounded))
	b.WriteString(fmt.Sprintf("%s %s\n", dim.Render("pos  m"), white.Render(fmt.Sprintf("%6.2f %6.2f", pos.X, pos.Y))))
	b.WriteString(fmt.Sprintf("%s %s\n", dim.Render("vel m/s"), white.Render(fmt.Sprintf("%6.2f %6.2f", snap.VelX, snap.VelY))))
	b.WriteString(fmt.Sprintf("%s %s\n", dim.Render("jumps"), white.Render(fmt.Sprintf("%d/%d", snap.JumpsUsed, m.cfg.Jump.MaxJumps))))
	b.WriteString(fmt.Sprintf("%s %s\n", dim.Render("coyote"), white.Render(fmt.Sprintf("%.3f", snap.CoyoteTimer))))
	b.WriteString(fmt.Sprintf("%s %s\n\n", dim.Render("buffer"), white.Render(fmt.Sprintf("%.3f", snap.JumpBufferTimer))))

	b.WriteString(magenta.Render("events") + "\n")
	for _, line := range m.feed.lines {
		b.WriteString(dim.Render("· ") + line + "\n")
	}
	b.WriteString("\n" + dim.Render("a/d move  space jump  s duck  r revive  q quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Run starts the playground with the given tuning and level.
func Run(cfg *config.Config, level []world.PlatformSpec, spawn cp.Vector) error {
	m, err := newModel(cfg, level, spawn)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
