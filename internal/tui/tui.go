// Package tui drives a bubblepop Scene in the terminal with Bubble Tea.
// Each character cell stands for an 8x16 pixel patch of the simulated
// canvas.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	glam "github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"

	"github.com/phanxgames/bubblepop"
)

const (
	cellW = 8.0
	cellH = 16.0

	frameRate       = 60
	sampleEvery     = 30 // ticks between population samples
	historyCapacity = 120
	graphHeight     = 4
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	popupStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("129")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)
	disabledStyle = buttonStyle.Background(lipgloss.Color("240"))
)

// Model is the Bubble Tea model wrapping a Scene.
type Model struct {
	scene *bubblepop.Scene

	width, height int // terminal cells
	ready         bool
	showGraph     bool

	spin     spinner.Model
	glam     *glam.TermRenderer
	glamWrap int
	mdSource string
	mdOut    string

	ticks     int
	afterTick func()
	history   []float64
	styles    map[int]lipgloss.Style // keyed by quantized hue
}

// New creates a model for scene. The scene is reset on the first window size
// message.
func New(scene *bubblepop.Scene) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return &Model{
		scene:   scene,
		spin:    sp,
		history: make([]float64, 0, historyCapacity),
		styles:  make(map[int]lipgloss.Style),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spin.Tick)
}

// canvasRows is the number of terminal rows given to the bubbles.
func (m *Model) canvasRows() int {
	rows := m.height - 1
	if m.showGraph {
		rows -= graphHeight + 2
	}
	return max(rows, 1)
}

// resize maps the terminal size onto the scene canvas.
func (m *Model) resize() {
	m.scene.Resize(int(float64(m.width)*cellW), int(float64(m.canvasRows())*cellH))
}

// toScene converts a terminal cell to the canvas point at its center.
func toScene(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellW, (float64(row) + 0.5) * cellH
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		m.scene.Tick(1.0 / frameRate)
		if m.afterTick != nil {
			m.afterTick()
		}
		m.ticks++
		if m.ticks%sampleEvery == 0 {
			m.sample()
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		popup := m.scene.Popup()
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			b := m.scene.Bounds()
			m.scene.Reset(b.Width, b.Height)
			m.history = m.history[:0]
		case "g":
			if popup != nil {
				popup.Generate()
			}
		case "esc":
			if popup != nil {
				popup.Dismiss()
			}
		case "h":
			m.showGraph = !m.showGraph
			if m.ready {
				m.resize()
			}
		}
	}
	return m, nil
}

// handleMouse feeds press and release edges to the scene. While the popup is
// up the mouse is ignored; it is driven from the keyboard.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if p := m.scene.Popup(); p != nil && p.Visible() {
		return
	}
	if msg.Y >= m.canvasRows() {
		return
	}
	x, y := toScene(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft || msg.Button == tea.MouseButtonRight || msg.Button == tea.MouseButtonMiddle {
			m.scene.PointerDown(x, y)
		}
	case tea.MouseActionRelease:
		m.scene.PointerUp(x, y)
	}
}

func (m *Model) sample() {
	m.history = append(m.history, float64(m.scene.Len()))
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// History returns the sampled population history, oldest first.
func (m *Model) History() []float64 {
	return m.history
}

func (m *Model) View() string {
	if !m.ready {
		return "Initializing…"
	}
	var b strings.Builder
	rows := m.canvasRows()
	if p := m.scene.Popup(); p != nil && p.Visible() {
		b.WriteString(lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, m.renderPopup(p)))
	} else {
		b.WriteString(m.renderCanvas(m.width, rows))
	}
	b.WriteString("\n")
	if m.showGraph {
		b.WriteString(m.renderGraph())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderCanvas draws each cell as the topmost bubble covering its center.
// Consecutive cells with the same style share one lipgloss render.
func (m *Model) renderCanvas(cols, rows int) string {
	bubbles := m.scene.Bubbles()
	var b strings.Builder
	for row := 0; row < rows; row++ {
		var run strings.Builder
		runKey := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runKey < 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(m.style(runKey).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < cols; col++ {
			x, y := toScene(col, row)
			glyph, key := cellGlyph(bubbles, x, y)
			if key != runKey {
				flush()
				runKey = key
			}
			run.WriteRune(glyph)
		}
		flush()
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// cellGlyph picks the glyph for the canvas point (x, y) and a style key: -1
// for empty, 360 for the white highlight, otherwise the bubble hue in whole
// degrees.
func cellGlyph(bubbles []*bubblepop.Bubble, x, y float64) (rune, int) {
	for i := len(bubbles) - 1; i >= 0; i-- {
		bb := bubbles[i]
		dx, dy := x-bb.X, y-bb.Y
		dist := math.Hypot(dx, dy)
		if dist >= bb.Radius {
			continue
		}
		hx, hy := x-(bb.X-0.25*bb.Radius), y-(bb.Y-0.25*bb.Radius)
		switch {
		case math.Hypot(hx, hy) < 0.25*bb.Radius:
			return '*', 360
		case dist > 0.7*bb.Radius:
			return 'o', int(bb.Hue)
		default:
			return '·', int(bb.Hue)
		}
	}
	return ' ', -1
}

func (m *Model) style(key int) lipgloss.Style {
	if s, ok := m.styles[key]; ok {
		return s
	}
	var s lipgloss.Style
	if key == 360 {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	} else {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(hslToHex(float64(key), 1, 0.75)))
	}
	m.styles[key] = s
	return s
}

func (m *Model) renderPopup(p *bubblepop.Popup) string {
	wrap := min(max(m.width-8, 20), 60)
	var body string
	if p.Loading() {
		body = m.spin.View() + " Thinking…"
	} else {
		body = strings.TrimSpace(m.markdown(p.Message(), wrap))
	}
	button := buttonStyle.Render("g: generate deep thought")
	if !p.ButtonEnabled() {
		button = disabledStyle.Render("g: generate deep thought")
	}
	hint := statusStyle.Render("esc: close")
	return popupStyle.Width(wrap + 2).Render(body + "\n\n" + button + "  " + hint)
}

// markdown renders s with glamour, caching the last result.
func (m *Model) markdown(s string, wrap int) string {
	if s == m.mdSource && wrap == m.glamWrap && m.mdOut != "" {
		return m.mdOut
	}
	if m.glam == nil || wrap != m.glamWrap {
		r, err := glam.NewTermRenderer(
			glam.WithStylePath("dark"), // fixed style to avoid OSC queries
			glam.WithWordWrap(wrap),
		)
		if err != nil {
			return s
		}
		m.glam, m.glamWrap = r, wrap
	}
	out, err := m.glam.Render(s)
	if err != nil {
		return s
	}
	m.mdSource, m.mdOut = s, out
	return out
}

func (m *Model) renderGraph() string {
	if len(m.history) < 2 {
		return graphStyle.Render(strings.Repeat("\n", graphHeight) + "collecting population samples…")
	}
	return graphStyle.Render(asciigraph.Plot(m.history,
		asciigraph.Height(graphHeight),
		asciigraph.Width(max(m.width-10, 10)),
		asciigraph.Caption("population"),
	))
}

func (m *Model) renderStatus() string {
	keys := keyStyle.Render("q") + " quit  " + keyStyle.Render("r") + " reset  " +
		keyStyle.Render("h") + " history  " + keyStyle.Render("g/esc") + " popup"
	stats := fmt.Sprintf("bubbles %d  pops %d  ", m.scene.Len(), m.scene.Pops())
	return statusStyle.Render(stats) + keys
}

// hslToHex formats the window frontend's HSL color as a #RRGGBB string.
func hslToHex(h, s, l float64) string {
	r, g, b := bubblepop.HSL(h, s, l)
	return fmt.Sprintf("#%02X%02X%02X", to8(r), to8(g), to8(b))
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Run launches the terminal frontend for scene and blocks until the user
// quits. afterTick, if non-nil, runs after every simulation tick.
func Run(scene *bubblepop.Scene, afterTick func()) error {
	// Prevent OSC background color queries from contaminating stdin.
	lipgloss.SetColorProfile(termenv.TrueColor)
	lipgloss.SetHasDarkBackground(true)

	m := New(scene)
	m.afterTick = afterTick
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
