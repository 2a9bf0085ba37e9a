package bubblepop

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/bubblepop/internal/logging"
)

// EventStore is the interface for optional ECS integration.
// When set on a Scene, pops, resets and popup activity are forwarded to it.
type EventStore interface {
	EmitEvent(event SceneEvent)
}

// SceneEvent carries scene activity for the ECS bridge.
type SceneEvent struct {
	Type EventType
	Tick uint64
	// Pointer position (valid for EventPop).
	X, Y float64
	// Popped bubble and its two children (valid for EventPop).
	Popped   Bubble
	Children [2]Bubble
	// Population after the event (valid for EventPop and EventReset).
	Count int
	// Message shown by the popup (valid for EventPopup and EventThought).
	Text string
}

// Scene is the single simulation context. It owns the live bubble
// collection, the RNG, pointer state, pop effects, the idle popup and the
// render buffers. All methods must be called from the goroutine driving the
// frame loop.
type Scene struct {
	bubbles []*Bubble
	tuning  Tuning
	rng     *rand.Rand
	fxRng   *rand.Rand // effects only; never touches bubble state
	bounds  Rect
	tick    uint64
	pops    uint64

	// Resize requested by Layout, applied at the start of the next Update.
	pendingW, pendingH int
	resizePending      bool

	store            EventStore
	logger           logging.Logger
	debug            bool
	populationWarnAt int

	// ClearColor fills the frame before bubbles are drawn. Transparent
	// (the zero value) clears instead.
	ClearColor Color
	// ShowHUD draws FPS, TPS and population in the top-left corner.
	ShowHUD bool
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	// Pop effects
	rings []*popRing
	spray *spray

	popup      *Popup
	hud        *hud
	updateFunc func() error

	// Render buffers
	verts []ebiten.Vertex
	inds  []uint32

	// Input state
	handlers     handlerRegistry
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent

	testRunner      *TestRunner
	screenshotQueue []string
}

// NewScene creates an empty scene with default tuning and a random seed.
// Call Reset (or Resize) to populate it.
func NewScene() *Scene {
	return &Scene{
		tuning:           DefaultTuning(),
		rng:              rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		fxRng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:           logging.NoOp{},
		hud:              newHUD(),
		populationWarnAt: debugMaxBubbles,
		spray:            newSpray(defaultSprayConfig()),
		ScreenshotDir:    "screenshots",
	}
}

// SetSeed reseeds the scene's RNG. Subsequent bubbles are deterministic for
// a given seed.
func (s *Scene) SetSeed(seed uint64) {
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s.fxRng = rand.New(rand.NewPCG(^seed, seed))
}

// SetTuning replaces the lifecycle constants. Existing bubbles keep their
// current state.
func (s *Scene) SetTuning(t Tuning) {
	s.tuning = t
}

// Tuning returns the lifecycle constants in use.
func (s *Scene) Tuning() Tuning {
	return s.tuning
}

// SetLogger sets the logger used for lifecycle and debug output. nil
// installs a no-op logger.
func (s *Scene) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NoOp{}
	}
	s.logger = l
	if s.popup != nil {
		s.popup.logger = l
	}
}

// SetEventStore sets the optional ECS bridge.
func (s *Scene) SetEventStore(store EventStore) {
	s.store = store
}

// SetDebugMode enables or disables per-frame timing logs at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetPopup attaches the idle popup. The scene updates it each tick, routes
// pointer input over its panel to it and draws it above the bubbles.
func (s *Scene) SetPopup(p *Popup) {
	s.popup = p
	if p == nil {
		return
	}
	p.logger = s.logger
	if s.bounds.Width > 0 {
		p.setBounds(s.bounds)
	}
	p.onShow = func(msg string) {
		s.emit(SceneEvent{Type: EventPopup, Count: len(s.bubbles), Text: msg})
	}
	p.onThought = func(msg string) {
		s.emit(SceneEvent{Type: EventThought, Count: len(s.bubbles), Text: msg})
	}
}

// Popup returns the attached popup, or nil.
func (s *Scene) Popup() *Popup {
	return s.popup
}

// SetUpdateFunc registers a callback run at the end of every Update. A
// non-nil error stops the game loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Bubbles returns the live collection in index order. The returned slice
// MUST NOT be mutated.
func (s *Scene) Bubbles() []*Bubble {
	return s.bubbles
}

// Len returns the number of live bubbles.
func (s *Scene) Len() int {
	return len(s.bubbles)
}

// Bounds returns the current canvas bounds.
func (s *Scene) Bounds() Rect {
	return s.bounds
}

// Ticks returns the number of simulation steps taken since creation.
func (s *Scene) Ticks() uint64 {
	return s.tick
}

// Pops returns the number of bubbles popped since creation.
func (s *Scene) Pops() uint64 {
	return s.pops
}

func (s *Scene) ctx() context.Context {
	return logging.WithFrameID(context.Background(), s.tick)
}

// Reset discards the collection and repopulates it with
// Tuning.InitialBubbles fresh bubbles placed inside a width x height canvas.
// Pop effects and pointer state are cleared and the popup timer restarts.
func (s *Scene) Reset(width, height float64) {
	s.bounds = Rect{Width: width, Height: height}

	// Spawn centers stay SpawnRadius from the edges; a canvas narrower than
	// two radii collapses to its midline.
	r := s.tuning.SpawnRadius
	spanX, offX := max(width-r*2, 0), min(r, width/2)
	spanY, offY := max(height-r*2, 0), min(r, height/2)
	s.bubbles = make([]*Bubble, 0, s.tuning.InitialBubbles)
	for i := 0; i < s.tuning.InitialBubbles; i++ {
		x := s.rng.Float64()*spanX + offX
		y := s.rng.Float64()*spanY + offY
		s.bubbles = append(s.bubbles, newBubble(s.rng, &s.tuning, x, y, s.tuning.MaxRadius.Random(s.rng)))
	}

	s.rings = s.rings[:0]
	s.spray.reset()
	s.pointers = [maxPointers]pointerState{}
	if s.popup != nil {
		s.popup.setBounds(s.bounds)
		s.popup.RestartTimer()
	}

	s.logger.Info(s.ctx(), "scene reset",
		logging.F("width", width), logging.F("height", height), logging.F("bubbles", len(s.bubbles)))
	s.emit(SceneEvent{Type: EventReset, Count: len(s.bubbles)})
}

// Resize resets the scene if the size differs from the current bounds.
func (s *Scene) Resize(width, height int) {
	if float64(width) == s.bounds.Width && float64(height) == s.bounds.Height && s.bubbles != nil {
		return
	}
	s.Reset(float64(width), float64(height))
}

// requestResize records a size reported by Layout; the reset happens on the
// next Update so that Layout never mutates the collection.
func (s *Scene) requestResize(width, height int) {
	if float64(width) == s.bounds.Width && float64(height) == s.bounds.Height && s.bubbles != nil {
		s.resizePending = false
		return
	}
	s.pendingW, s.pendingH = width, height
	s.resizePending = true
}

// Step advances every live bubble by one tick.
func (s *Scene) Step() {
	for _, b := range s.bubbles {
		b.Step(s.bounds, &s.tuning)
	}
	s.tick++
}

// Tick runs one full frame of simulation without reading device input:
// bubbles, pop effects and the popup. dt is the frame duration in seconds
// and only affects the cosmetic effects.
func (s *Scene) Tick(dt float64) {
	s.Step()
	s.updateEffects(dt)
	s.hud.update(dt)
	if s.popup != nil {
		s.popup.Update()
	}
}

// Update is the ebiten update hook: apply pending resizes, advance the test
// runner, process input, then Tick.
func (s *Scene) Update() error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.resizePending {
		s.resizePending = false
		s.Reset(float64(s.pendingW), float64(s.pendingH))
	}
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	s.Tick(1.0 / float64(ebiten.TPS()))

	if s.debug {
		s.logger.Debug(s.ctx(), "update",
			logging.F("took", time.Since(t0)), logging.F("bubbles", len(s.bubbles)))
	}

	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// PointerDown marks every bubble strictly containing (x, y) as pressed.
// It returns the number of bubbles marked.
func (s *Scene) PointerDown(x, y float64) int {
	n := 0
	for _, b := range s.bubbles {
		if b.Contains(x, y) {
			b.pressed = true
			n++
		}
	}
	return n
}

// PointerUp pops every pressed bubble strictly containing (x, y) and
// returns the number popped.
//
// The scan runs from the last index down to 0. Split removes index i and
// appends two children past the end, so entries below the cursor keep
// their indices and freshly appended children are never visited.
func (s *Scene) PointerUp(x, y float64) int {
	n := 0
	for i := len(s.bubbles) - 1; i >= 0; i-- {
		b := s.bubbles[i]
		if !b.Contains(x, y) || !b.pressed {
			continue
		}
		s.pop(i, x, y)
		b.pressed = false
		n++
	}
	return n
}

// Split removes the bubble at index and appends two children of radius
// SpawnRadius, each with growth ceiling 2*max(radius/2, SpawnRadius),
// centred newRadius to the left and right of the parent. It returns the
// children. Split panics if index is out of range.
func (s *Scene) Split(index int) (left, right *Bubble) {
	p := s.bubbles[index]
	s.bubbles = slices.Delete(s.bubbles, index, index+1)

	newRadius := math.Max(p.Radius/2, s.tuning.SpawnRadius)
	left = newBubble(s.rng, &s.tuning, p.X-newRadius, p.Y, newRadius*2)
	right = newBubble(s.rng, &s.tuning, p.X+newRadius, p.Y, newRadius*2)
	s.bubbles = append(s.bubbles, left, right)
	return left, right
}

// pop splits the bubble at index and notifies effects, handlers and the
// event store.
func (s *Scene) pop(index int, x, y float64) {
	popped := *s.bubbles[index]
	left, right := s.Split(index)
	s.pops++

	s.spawnEffects(&popped)
	s.debugCheckPopulation()

	ctx := PopContext{
		X: x, Y: y,
		Popped:   popped,
		Children: [2]Bubble{*left, *right},
		Count:    len(s.bubbles),
	}
	for _, h := range s.handlers.pop {
		h.fn(ctx)
	}

	s.logger.Debug(s.ctx(), "bubble popped",
		logging.F("radius", popped.Radius), logging.F("bubbles", len(s.bubbles)))
	s.emit(SceneEvent{
		Type: EventPop, X: x, Y: y,
		Popped: popped, Children: ctx.Children, Count: ctx.Count,
	})
}

func (s *Scene) emit(e SceneEvent) {
	if s.store == nil {
		return
	}
	e.Tick = s.tick
	s.store.EmitEvent(e)
}
