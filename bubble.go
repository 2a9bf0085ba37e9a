package bubblepop

import (
	"math"
	"math/rand/v2"
)

// Bubble is a drifting, growing disc. Fields are exported so frontends can
// read them; mutate bubbles only through Scene.
type Bubble struct {
	X, Y      float64
	DX, DY    float64
	Radius    float64
	MaxRadius float64
	Hue       float64 // degrees, [0, 360)
	Growing   bool

	WobblePhase float64 // radians
	WobbleSpeed float64 // radians per tick

	// pressed is set by PointerDown when the press landed inside the bubble
	// and cleared when the bubble pops.
	pressed bool
}

// newBubble creates a bubble at (x, y) with the spawn radius and the given
// growth ceiling. Velocity, hue and wobble are drawn from rng.
func newBubble(rng *rand.Rand, t *Tuning, x, y, maxRadius float64) *Bubble {
	return &Bubble{
		X:           x,
		Y:           y,
		DX:          t.Speed.Random(rng),
		DY:          t.Speed.Random(rng),
		Radius:      t.SpawnRadius,
		MaxRadius:   maxRadius,
		Hue:         rng.Float64() * 360,
		Growing:     true,
		WobblePhase: wobblePhaseRange.Random(rng),
		WobbleSpeed: t.WobbleSpeed.Random(rng),
	}
}

// Step advances the bubble by one tick inside bounds: bounce, translate,
// wobble, grow. The bounce test runs before the move, so a bubble may overlap
// a wall by up to one tick of velocity before it turns around.
func (b *Bubble) Step(bounds Rect, t *Tuning) {
	if b.X+b.Radius >= bounds.X+bounds.Width || b.X-b.Radius <= bounds.X {
		b.DX = -b.DX
	}
	if b.Y+b.Radius >= bounds.Y+bounds.Height || b.Y-b.Radius <= bounds.Y {
		b.DY = -b.DY
	}

	b.X += b.DX
	b.Y += b.DY

	b.WobblePhase += b.WobbleSpeed
	b.Y += math.Sin(b.WobblePhase) * t.WobbleAmplitude

	if b.Growing && b.Radius < b.MaxRadius {
		b.Radius = math.Min(b.Radius+t.GrowthStep, b.MaxRadius)
	}
	if b.Radius >= b.MaxRadius {
		b.Growing = false
	}
}

// Contains reports whether (x, y) is strictly inside the bubble.
func (b *Bubble) Contains(x, y float64) bool {
	return HitCircle{CenterX: b.X, CenterY: b.Y, Radius: b.Radius}.Contains(x, y)
}

// Pressed reports whether a press landed on this bubble and has not yet been
// matched by a release.
func (b *Bubble) Pressed() bool {
	return b.pressed
}
