package bubblepop

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// bubbleSegments is the number of perimeter vertices per gradient ring.
const bubbleSegments = 32

// gradientRings are the interpolation parameters of the concentric rings in
// a bubble mesh. Ring 0 is the inner circle, the last ring the outer circle.
var gradientRings = [...]float64{0, 0.25, 0.5, 0.75, 1}

// vertsPerBubble and indsPerBubble are the mesh sizes appendBubbleMesh
// produces for one bubble.
const (
	vertsPerBubble = 1 + len(gradientRings)*bubbleSegments
	indsPerBubble  = bubbleSegments*3 + (len(gradientRings)-1)*bubbleSegments*6
)

// HSL converts hue in degrees, saturation and lightness in [0, 1] to RGB
// components in [0, 1]. Both frontends color bubbles through it.
func HSL(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// hslColor returns the straight-alpha color for hsla(h, s, l, a).
func hslColor(h, s, l, a float64) Color {
	r, g, b := HSL(h, s, l)
	return Color{R: r, G: g, B: b, A: a}
}

// premul is a premultiplied vertex color.
type premul [4]float32

func toPremul(c Color) premul {
	a := clamp01(c.A)
	return premul{float32(c.R * a), float32(c.G * a), float32(c.B * a), float32(a)}
}

func lerpPremul(a, b premul, t float64) premul {
	var out premul
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*float32(t)
	}
	return out
}

// bubbleGradient returns the three gradient stops for a bubble of the given
// hue: a white highlight at 0, the hue at 0.5 and a faint rim at 1.
func bubbleGradient(hue float64) [3]Color {
	return [3]Color{
		{R: 1, G: 1, B: 1, A: 0.7},
		hslColor(hue, 1, 0.75, 0.4),
		hslColor(hue, 1, 0.75, 0.1),
	}
}

// gradientAt evaluates the bubble gradient at t in [0, 1], interpolating
// between stops in premultiplied space.
func gradientAt(stops [3]Color, t float64) premul {
	if t <= 0.5 {
		return lerpPremul(toPremul(stops[0]), toPremul(stops[1]), t/0.5)
	}
	return lerpPremul(toPremul(stops[1]), toPremul(stops[2]), (t-0.5)/0.5)
}

// appendBubbleMesh appends the radial-gradient disc for b. The gradient runs
// from an inner circle at (X-0.25R, Y-0.25R) with radius 0.1R to the outer
// circle at (X, Y) with radius R. The inner disc is a fan in the first stop's
// color; each following ring lies on the circle interpolated between the two.
func appendBubbleMesh(verts []ebiten.Vertex, inds []uint32, b *Bubble) ([]ebiten.Vertex, []uint32) {
	x0, y0, r0 := b.X-0.25*b.Radius, b.Y-0.25*b.Radius, 0.1*b.Radius
	x1, y1, r1 := b.X, b.Y, b.Radius
	stops := bubbleGradient(b.Hue)

	base := uint32(len(verts))
	c0 := gradientAt(stops, 0)
	verts = append(verts, vertex(x0, y0, c0))

	for _, t := range gradientRings {
		cx, cy, rad := lerp(x0, x1, t), lerp(y0, y1, t), lerp(r0, r1, t)
		clr := gradientAt(stops, t)
		for i := 0; i < bubbleSegments; i++ {
			theta := 2 * math.Pi * float64(i) / bubbleSegments
			verts = append(verts, vertex(cx+math.Cos(theta)*rad, cy+math.Sin(theta)*rad, clr))
		}
	}

	// Fan over the inner circle.
	center := base
	first := base + 1
	for i := uint32(0); i < bubbleSegments; i++ {
		j := (i + 1) % bubbleSegments
		inds = append(inds, center, first+i, first+j)
	}
	// Quads between consecutive rings.
	for k := uint32(0); k < uint32(len(gradientRings)-1); k++ {
		in := first + k*bubbleSegments
		out := in + bubbleSegments
		for i := uint32(0); i < bubbleSegments; i++ {
			j := (i + 1) % bubbleSegments
			inds = append(inds,
				in+i, out+i, in+j,
				out+i, out+j, in+j,
			)
		}
	}
	return verts, inds
}

func vertex(x, y float64, c premul) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: c[0], ColorG: c[1], ColorB: c[2], ColorA: c[3],
	}
}

// --- White pixel singleton (no sync.Once; rendering is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used as the source for every untextured mesh.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
