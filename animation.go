package bubblepop

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	ringDuration   = 0.35
	ringGrowth     = 1.6
	ringStartAlpha = 0.6
	ringWidth      = 2.0
	ringSegments   = 32
)

// popRing is the expanding outline left behind by a popped bubble. Radius and
// alpha are driven by two gween tweens; the ring is finished when both are.
type popRing struct {
	X, Y   float64
	Radius float64
	Alpha  float64
	Color  Color
	Done   bool

	tweens [2]*gween.Tween
}

// newPopRing creates a ring over b that grows from b.Radius to 1.6x while
// fading out.
func newPopRing(b *Bubble) *popRing {
	return &popRing{
		X:      b.X,
		Y:      b.Y,
		Radius: b.Radius,
		Alpha:  ringStartAlpha,
		Color:  hslColor(b.Hue, 1, 0.75, 1),
		tweens: [2]*gween.Tween{
			gween.New(float32(b.Radius), float32(b.Radius*ringGrowth), ringDuration, ease.OutQuad),
			gween.New(ringStartAlpha, 0, ringDuration, ease.OutQuad),
		},
	}
}

// update advances both tweens by dt seconds and writes the values back.
func (r *popRing) update(dt float32) {
	if r.Done {
		return
	}
	radius, doneR := r.tweens[0].Update(dt)
	alpha, doneA := r.tweens[1].Update(dt)
	r.Radius = float64(radius)
	r.Alpha = float64(alpha)
	r.Done = doneR && doneA
}

// appendMesh appends the ring as an annulus of ringSegments quads.
func (r *popRing) appendMesh(verts []ebiten.Vertex, inds []uint32) ([]ebiten.Vertex, []uint32) {
	a := float32(clamp01(r.Alpha))
	cr, cg, cb := float32(r.Color.R)*a, float32(r.Color.G)*a, float32(r.Color.B)*a
	inner := math.Max(r.Radius-ringWidth/2, 0)
	outer := r.Radius + ringWidth/2

	base := uint32(len(verts))
	for i := 0; i < ringSegments; i++ {
		theta := 2 * math.Pi * float64(i) / ringSegments
		cos, sin := math.Cos(theta), math.Sin(theta)
		for _, rad := range [2]float64{inner, outer} {
			verts = append(verts, ebiten.Vertex{
				DstX: float32(r.X + cos*rad), DstY: float32(r.Y + sin*rad),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a,
			})
		}
	}
	for i := uint32(0); i < ringSegments; i++ {
		j := (i + 1) % ringSegments
		i0, o0 := base+2*i, base+2*i+1
		i1, o1 := base+2*j, base+2*j+1
		inds = append(inds, i0, o0, i1, o0, o1, i1)
	}
	return verts, inds
}

// spawnEffects starts the ring and droplet spray for a popped bubble.
func (s *Scene) spawnEffects(b *Bubble) {
	s.rings = append(s.rings, newPopRing(b))
	s.spray.burst(b.X, b.Y, hslColor(b.Hue, 1, 0.75, 1), s.fxRng)
}

// updateEffects advances rings and droplets by dt seconds and drops finished
// rings, preserving order.
func (s *Scene) updateEffects(dt float64) {
	kept := s.rings[:0]
	for _, r := range s.rings {
		r.update(float32(dt))
		if !r.Done {
			kept = append(kept, r)
		}
	}
	clear(s.rings[len(kept):])
	s.rings = kept
	s.spray.update(dt)
}
