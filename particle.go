package bubblepop

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// droplet holds per-droplet simulation state. Unexported; managed by spray.
type droplet struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime in seconds
	maxLife    float64 // initial lifetime (for computing t)
	size       float64
	alpha      float64
	r, g, b    float64
	startSize  float64
	startAlpha float64
}

// sprayConfig controls how droplets are spawned and behave.
type sprayConfig struct {
	// MaxDroplets is the pool size. New droplets are silently dropped when full.
	MaxDroplets int
	// PerPop is the number of droplets spawned by one pop.
	PerPop int
	// Lifetime is the range of droplet lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial droplet speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// Droplet edge length in pixels, interpolated from birth to death.
	StartSize, EndSize float64
	// Droplet alpha, interpolated from birth to death.
	StartAlpha, EndAlpha float64
	// Gravity is the constant acceleration applied to every droplet.
	Gravity Vec2
}

func defaultSprayConfig() sprayConfig {
	return sprayConfig{
		MaxDroplets: 256,
		PerPop:      10,
		Lifetime:    Range{Min: 0.3, Max: 0.6},
		Speed:       Range{Min: 40, Max: 120},
		Angle:       Range{Min: 0, Max: 2 * math.Pi},
		StartSize:   3,
		EndSize:     1,
		StartAlpha:  0.8,
		EndAlpha:    0,
		Gravity:     Vec2{X: 0, Y: 180},
	}
}

// spray is a fixed pool of droplets thrown out by popped bubbles.
// Purely cosmetic: nothing in it feeds back into the bubble collection.
type spray struct {
	config   sprayConfig
	droplets []droplet
	alive    int
}

// newSpray creates a spray with a preallocated pool.
func newSpray(cfg sprayConfig) *spray {
	max := cfg.MaxDroplets
	if max <= 0 {
		max = 128
	}
	return &spray{
		config:   cfg,
		droplets: make([]droplet, max),
	}
}

// reset kills all alive droplets.
func (sp *spray) reset() {
	sp.alive = 0
}

// aliveCount returns the number of alive droplets.
func (sp *spray) aliveCount() int {
	return sp.alive
}

// burst spawns up to PerPop droplets at (x, y) tinted with clr. Returns the
// number actually spawned.
func (sp *spray) burst(x, y float64, clr Color, rng *rand.Rand) int {
	n := 0
	for i := 0; i < sp.config.PerPop && sp.alive < len(sp.droplets); i++ {
		p := &sp.droplets[sp.alive]

		angle := sp.config.Angle.Random(rng)
		speed := sp.config.Speed.Random(rng)
		p.x, p.y = x, y
		p.vx = math.Cos(angle) * speed
		p.vy = math.Sin(angle) * speed

		p.life = sp.config.Lifetime.Random(rng)
		if p.life <= 0 {
			p.life = 0.5
		}
		p.maxLife = p.life

		p.startSize = sp.config.StartSize
		p.size = p.startSize
		p.startAlpha = sp.config.StartAlpha
		p.alpha = p.startAlpha
		p.r, p.g, p.b = clr.R, clr.G, clr.B

		sp.alive++
		n++
	}
	return n
}

// update advances droplet simulation by dt seconds.
func (sp *spray) update(dt float64) {
	gx := sp.config.Gravity.X * dt
	gy := sp.config.Gravity.Y * dt

	// Update existing droplets, swap-remove dead ones.
	i := 0
	for i < sp.alive {
		p := &sp.droplets[i]
		p.life -= dt
		if p.life <= 0 {
			sp.alive--
			sp.droplets[i] = sp.droplets[sp.alive]
			continue
		}

		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := 1.0 - p.life/p.maxLife
		p.size = lerp(p.startSize, sp.config.EndSize, t)
		p.alpha = lerp(p.startAlpha, sp.config.EndAlpha, t)

		i++
	}
}

// appendMesh appends one untextured quad per alive droplet to the batch.
func (sp *spray) appendMesh(verts []ebiten.Vertex, inds []uint32) ([]ebiten.Vertex, []uint32) {
	for i := 0; i < sp.alive; i++ {
		p := &sp.droplets[i]
		half := float32(p.size / 2)
		cx, cy := float32(p.x), float32(p.y)
		a := float32(clamp01(p.alpha))
		cr := float32(p.r) * a
		cg := float32(p.g) * a
		cb := float32(p.b) * a

		base := uint32(len(verts))
		qx := [4]float32{cx - half, cx + half, cx - half, cx + half}
		qy := [4]float32{cy - half, cy - half, cy + half, cy + half}
		for j := 0; j < 4; j++ {
			verts = append(verts, ebiten.Vertex{
				DstX: qx[j], DstY: qy[j],
				SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a,
			})
		}
		// Two triangles: TL-TR-BL, TR-BR-BL
		inds = append(inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	return verts, inds
}
