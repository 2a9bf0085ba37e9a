package bubblepop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/bubblepop/internal/logging"
)

// DefaultPopupInterval is how long the user can play before the popup
// interrupts.
const DefaultPopupInterval = 2 * time.Minute

const (
	wastedFormat = "You've wasted %.1f minutes of your life."
	promptFormat = `Generate a short, funny, and slightly philosophical "deep thought" about a person who has just spent %.1f minutes popping virtual bubbles on a website. Keep it to one or two sentences.`
)

// FallbackThought is shown when generation fails or no generator is
// configured.
const FallbackThought = "Could not generate a thought. The universe is silent for now."

// ErrNoGenerator is reported when Generate is used on a popup built without
// a ThoughtGenerator.
var ErrNoGenerator = errors.New("bubblepop: no thought generator configured")

// ThoughtGenerator produces a short text for a prompt. Implementations may
// block; the popup always calls them off the frame goroutine.
type ThoughtGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PopupOption configures a Popup.
type PopupOption func(*Popup)

// WithClock replaces time.Now. Tests use it to drive the interval.
func WithClock(now func() time.Time) PopupOption {
	return func(p *Popup) { p.now = now }
}

// WithInterval sets the idle interval before the popup appears.
func WithInterval(d time.Duration) PopupOption {
	return func(p *Popup) { p.interval = d }
}

// WithGenerateTimeout bounds each generation request. Zero means no bound
// beyond the generator's own.
func WithGenerateTimeout(d time.Duration) PopupOption {
	return func(p *Popup) { p.timeout = d }
}

type thoughtResult struct {
	seq  uint64
	text string
	err  error
}

// Popup is the periodic "time wasted" overlay with a button that asks a
// ThoughtGenerator for a deep thought. All methods except the generator call
// itself run on the frame goroutine; results come back over a channel that
// Update drains.
type Popup struct {
	gen      ThoughtGenerator
	now      func() time.Time
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger

	sessionStart time.Time
	timerStart   time.Time

	visible bool
	loading bool
	message string

	// seq identifies the current request; results carrying an older value
	// are discarded.
	seq     uint64
	results chan thoughtResult

	onShow    func(msg string)
	onThought func(msg string)

	// Layout, recomputed from the canvas bounds.
	panel, button, close Rect
	pressed              *Rect
	verts                []ebiten.Vertex
	inds                 []uint32
}

// NewPopup creates a hidden popup whose session and interval timers start
// now. gen may be nil, in which case every Generate fails with the fallback
// message.
func NewPopup(gen ThoughtGenerator, opts ...PopupOption) *Popup {
	p := &Popup{
		gen:      gen,
		now:      time.Now,
		interval: DefaultPopupInterval,
		logger:   logging.NoOp{},
		results:  make(chan thoughtResult, 8),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sessionStart = p.now()
	p.timerStart = p.sessionStart
	p.setBounds(Rect{Width: 640, Height: 480})
	return p
}

// Visible reports whether the popup is showing.
func (p *Popup) Visible() bool { return p.visible }

// Loading reports whether a generation request is in flight. While loading
// the message is hidden and the button is disabled.
func (p *Popup) Loading() bool { return p.loading }

// ButtonEnabled reports whether the generate button accepts clicks.
func (p *Popup) ButtonEnabled() bool { return p.visible && !p.loading }

// Message returns the text the popup shows when not loading.
func (p *Popup) Message() string { return p.message }

// SessionMinutes returns the minutes elapsed since the popup was created.
func (p *Popup) SessionMinutes() float64 {
	return p.now().Sub(p.sessionStart).Minutes()
}

// RestartTimer starts a new idle interval from now.
func (p *Popup) RestartTimer() {
	p.timerStart = p.now()
}

// Update applies finished generation results and shows the popup once the
// idle interval has elapsed. The interval does not run while visible.
func (p *Popup) Update() {
	for drained := false; !drained; {
		select {
		case r := <-p.results:
			p.apply(r)
		default:
			drained = true
		}
	}
	if !p.visible && p.now().Sub(p.timerStart) >= p.interval {
		p.show()
	}
}

func (p *Popup) show() {
	p.visible = true
	p.loading = false
	p.seq++
	p.message = fmt.Sprintf(wastedFormat, p.SessionMinutes())
	p.logger.Info(context.Background(), "popup shown", logging.F("minutes", p.SessionMinutes()))
	if p.onShow != nil {
		p.onShow(p.message)
	}
}

// Dismiss hides the popup and restarts the idle interval. A request still
// in flight is abandoned; its result will be ignored.
func (p *Popup) Dismiss() {
	if !p.visible {
		return
	}
	p.visible = false
	p.loading = false
	p.seq++
	p.pressed = nil
	p.RestartTimer()
}

// Generate starts a deep-thought request. It does nothing unless the popup
// is visible and idle. Returns true if a request was started.
func (p *Popup) Generate() bool {
	if !p.ButtonEnabled() {
		return false
	}
	p.loading = true
	p.seq++
	seq := p.seq
	prompt := fmt.Sprintf(promptFormat, p.SessionMinutes())

	if p.gen == nil {
		p.apply(thoughtResult{seq: seq, err: ErrNoGenerator})
		return true
	}

	gen, timeout, results := p.gen, p.timeout, p.results
	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		text, err := gen.Generate(ctx, prompt)
		results <- thoughtResult{seq: seq, text: text, err: err}
	}()
	return true
}

func (p *Popup) apply(r thoughtResult) {
	if r.seq != p.seq {
		p.logger.Debug(context.Background(), "stale thought ignored", logging.F("seq", r.seq))
		return
	}
	p.loading = false
	if r.err != nil {
		p.logger.Error(context.Background(), "generate thought", r.err)
		p.message = FallbackThought
	} else {
		p.message = strings.TrimSpace(r.text)
	}
	if p.onThought != nil {
		p.onThought(p.message)
	}
}

// --- Layout and input ---

const (
	popupMaxWidth = 360
	popupHeight   = 150
	popupPadding  = 12
	buttonHeight  = 24
	closeSize     = 18
	glyphWidth    = 6  // ebitenutil debug font
	lineHeight    = 16 // ebitenutil debug font
	buttonLabel   = "Generate deep thought"
)

// setBounds centers the panel in a canvas of the given size.
func (p *Popup) setBounds(b Rect) {
	w := min(float64(popupMaxWidth), b.Width-2*popupPadding)
	if w < 0 {
		w = 0
	}
	p.panel = Rect{
		X:      b.X + (b.Width-w)/2,
		Y:      b.Y + (b.Height-popupHeight)/2,
		Width:  w,
		Height: popupHeight,
	}
	p.close = Rect{
		X:      p.panel.X + p.panel.Width - closeSize - 4,
		Y:      p.panel.Y + 4,
		Width:  closeSize,
		Height: closeSize,
	}
	bw := float64(len(buttonLabel)*glyphWidth + 2*popupPadding)
	p.button = Rect{
		X:      p.panel.X + (p.panel.Width-bw)/2,
		Y:      p.panel.Y + p.panel.Height - buttonHeight - popupPadding,
		Width:  bw,
		Height: buttonHeight,
	}
}

// Captures reports whether a press at (x, y) belongs to the popup.
func (p *Popup) Captures(x, y float64) bool {
	return p.visible && p.panel.Contains(x, y)
}

func (p *Popup) press(x, y float64) {
	switch {
	case p.close.Contains(x, y):
		p.pressed = &p.close
	case p.button.Contains(x, y):
		p.pressed = &p.button
	default:
		p.pressed = nil
	}
}

// release activates the control that was pressed if the release lands on it.
func (p *Popup) release(x, y float64) {
	pressed := p.pressed
	p.pressed = nil
	if pressed == nil || !pressed.Contains(x, y) {
		return
	}
	if pressed == &p.close {
		p.Dismiss()
	} else {
		p.Generate()
	}
}

// --- Drawing ---

var (
	popupBackground = Color{R: 0.08, G: 0.09, B: 0.14, A: 0.92}
	buttonEnabled   = Color{R: 0.35, G: 0.55, B: 0.95, A: 1}
	buttonDisabled  = Color{R: 0.4, G: 0.4, B: 0.45, A: 1}
	closeColor      = Color{R: 0.6, G: 0.2, B: 0.25, A: 1}
)

func (p *Popup) draw(screen *ebiten.Image) {
	if !p.visible {
		return
	}
	p.verts = p.verts[:0]
	p.inds = p.inds[:0]
	p.verts, p.inds = appendRect(p.verts, p.inds, p.panel, popupBackground)
	p.verts, p.inds = appendRect(p.verts, p.inds, p.close, closeColor)
	btn := buttonEnabled
	if !p.ButtonEnabled() {
		btn = buttonDisabled
	}
	p.verts, p.inds = appendRect(p.verts, p.inds, p.button, btn)

	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	screen.DrawTriangles32(p.verts, p.inds, ensureWhitePixel(), &triOp)

	ebitenutil.DebugPrintAt(screen, "x", int(p.close.X)+6, int(p.close.Y)+1)
	ebitenutil.DebugPrintAt(screen, buttonLabel, int(p.button.X)+popupPadding, int(p.button.Y)+4)

	textX := int(p.panel.X) + popupPadding
	textY := int(p.panel.Y) + popupPadding + closeSize
	if p.loading {
		dots := int(p.now().Sub(p.timerStart)/(300*time.Millisecond))%3 + 1
		ebitenutil.DebugPrintAt(screen, "Thinking"+strings.Repeat(".", dots), textX, textY)
		return
	}
	maxChars := int(p.panel.Width-2*popupPadding) / glyphWidth
	for i, line := range wrapText(p.message, maxChars) {
		ebitenutil.DebugPrintAt(screen, line, textX, textY+i*lineHeight)
	}
}

// appendRect appends an untextured quad in the given straight-alpha color.
func appendRect(verts []ebiten.Vertex, inds []uint32, r Rect, c Color) ([]ebiten.Vertex, []uint32) {
	pc := toPremul(c)
	base := uint32(len(verts))
	verts = append(verts,
		vertex(r.X, r.Y, pc),
		vertex(r.X+r.Width, r.Y, pc),
		vertex(r.X, r.Y+r.Height, pc),
		vertex(r.X+r.Width, r.Y+r.Height, pc),
	)
	inds = append(inds, base+0, base+1, base+2, base+1, base+3, base+2)
	return verts, inds
}

// wrapText breaks s into lines of at most width characters on word
// boundaries. Words longer than width are split.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	var cur []rune
	for _, field := range strings.Fields(s) {
		word := []rune(field)
		for len(word) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = cur[:0]
			}
			lines = append(lines, string(word[:width]))
			word = word[width:]
		}
		if len(cur) > 0 && len(cur)+1+len(word) > width {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, word...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
