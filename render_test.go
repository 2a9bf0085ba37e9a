package bubblepop

import (
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type drawCall struct {
	op    string // "clear", "fill" or "triangles"
	fill  color.Color
	verts []ebiten.Vertex
	inds  []uint32
	opts  ebiten.DrawTrianglesOptions
}

// recordingCanvas copies every call so reused scene buffers can't alter the
// record afterwards.
type recordingCanvas struct {
	calls []drawCall
}

func (c *recordingCanvas) Clear() { c.calls = append(c.calls, drawCall{op: "clear"}) }

func (c *recordingCanvas) Fill(clr color.Color) {
	c.calls = append(c.calls, drawCall{op: "fill", fill: clr})
}

func (c *recordingCanvas) DrawTriangles32(vertices []ebiten.Vertex, indices []uint32, _ *ebiten.Image, options *ebiten.DrawTrianglesOptions) {
	c.calls = append(c.calls, drawCall{
		op:    "triangles",
		verts: append([]ebiten.Vertex(nil), vertices...),
		inds:  append([]uint32(nil), indices...),
		opts:  *options,
	})
}

func (c *recordingCanvas) count(op string) int {
	n := 0
	for _, call := range c.calls {
		if call.op == op {
			n++
		}
	}
	return n
}

func TestDrawClearsOnceThenBatchesBubbles(t *testing.T) {
	s := seededScene(1)
	c := &recordingCanvas{}
	stats := s.drawTo(c, nil)

	if len(c.calls) != 2 {
		t.Fatalf("got %d calls, want 2 (clear, bubbles)", len(c.calls))
	}
	if c.calls[0].op != "clear" {
		t.Errorf("first call = %q, want clear", c.calls[0].op)
	}
	draw := c.calls[1]
	if len(draw.verts) != 15*vertsPerBubble || len(draw.inds) != 15*indsPerBubble {
		t.Errorf("batch has %d verts, %d inds; want %d, %d",
			len(draw.verts), len(draw.inds), 15*vertsPerBubble, 15*indsPerBubble)
	}
	if draw.opts.ColorScaleMode != ebiten.ColorScaleModePremultipliedAlpha {
		t.Error("bubbles must be submitted with premultiplied vertex colors")
	}
	if stats.drawCallCount != 1 || stats.triangleCount != 15*indsPerBubble/3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDrawFillsWithClearColor(t *testing.T) {
	s := seededScene(1)
	s.ClearColor = Color{R: 0, G: 0, B: 1, A: 1}
	c := &recordingCanvas{}
	s.drawTo(c, nil)

	if c.count("clear") != 0 || c.count("fill") != 1 {
		t.Fatalf("clear=%d fill=%d, want 0, 1", c.count("clear"), c.count("fill"))
	}
	if got := c.calls[0].fill; got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("fill = %v", got)
	}
}

func TestDrawEmptySceneOnlyClears(t *testing.T) {
	s := NewScene()
	c := &recordingCanvas{}
	s.drawTo(c, nil)
	if len(c.calls) != 1 || c.calls[0].op != "clear" {
		t.Errorf("calls = %+v", c.calls)
	}
}

func TestDrawEffectsAfterBubbles(t *testing.T) {
	s := seededScene(1)
	b := s.bubbles[0]
	s.PointerDown(b.X, b.Y)
	s.PointerUp(b.X, b.Y)

	c := &recordingCanvas{}
	s.drawTo(c, nil)
	if c.count("clear") != 1 || c.count("triangles") != 2 {
		t.Fatalf("clear=%d triangles=%d, want 1, 2", c.count("clear"), c.count("triangles"))
	}
	fx := c.calls[2]
	wantVerts := 2*ringSegments*len(s.rings) + 4*s.spray.aliveCount()
	if len(fx.verts) != wantVerts {
		t.Errorf("effects batch has %d verts, want %d", len(fx.verts), wantVerts)
	}
}

func TestDrawIsRepeatable(t *testing.T) {
	s := seededScene(1)
	a, b := &recordingCanvas{}, &recordingCanvas{}
	s.drawTo(a, nil)
	s.drawTo(b, nil)
	if len(a.calls[1].verts) != len(b.calls[1].verts) {
		t.Fatal("second frame differs in size")
	}
	for i := range a.calls[1].verts {
		if a.calls[1].verts[i] != b.calls[1].verts[i] {
			t.Fatalf("vertex %d differs between frames", i)
		}
	}
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func checkColor(t *testing.T, name string, v ebiten.Vertex, want premul) {
	t.Helper()
	got := premul{v.ColorR, v.ColorG, v.ColorB, v.ColorA}
	for i := range got {
		if !approx(got[i], want[i]) {
			t.Errorf("%s: color = %v, want %v", name, got, want)
			return
		}
	}
}

func TestBubbleMeshGradient(t *testing.T) {
	b := testBubble(100, 100, 40, 40)
	b.Hue = 0
	verts, inds := appendBubbleMesh(nil, nil, b)

	if len(verts) != vertsPerBubble || len(inds) != indsPerBubble {
		t.Fatalf("mesh = %d verts, %d inds", len(verts), len(inds))
	}

	// Highlight center sits up and left of the bubble center.
	if verts[0].DstX != 90 || verts[0].DstY != 90 {
		t.Errorf("fan center at (%v, %v), want (90, 90)", verts[0].DstX, verts[0].DstY)
	}
	checkColor(t, "fan center", verts[0], premul{0.7, 0.7, 0.7, 0.7})
	checkColor(t, "inner ring", verts[1], premul{0.7, 0.7, 0.7, 0.7})
	checkColor(t, "quarter ring", verts[1+bubbleSegments], premul{0.55, 0.45, 0.45, 0.55})
	checkColor(t, "middle ring", verts[1+2*bubbleSegments], premul{0.4, 0.2, 0.2, 0.4})
	checkColor(t, "outer ring", verts[1+4*bubbleSegments], premul{0.1, 0.05, 0.05, 0.1})

	// Outer ring lies on the bubble's circle.
	for i := 0; i < bubbleSegments; i++ {
		v := verts[1+4*bubbleSegments+i]
		d := math.Hypot(float64(v.DstX)-100, float64(v.DstY)-100)
		if math.Abs(d-40) > 1e-3 {
			t.Fatalf("outer vertex %d at distance %v, want 40", i, d)
		}
	}
	for i, idx := range inds {
		if int(idx) >= len(verts) {
			t.Fatalf("index %d = %d out of range", i, idx)
		}
	}
}

func TestBubbleMeshAppendsWithOffset(t *testing.T) {
	a, b := testBubble(50, 50, 10, 10), testBubble(150, 50, 10, 10)
	verts, inds := appendBubbleMesh(nil, nil, a)
	verts, inds = appendBubbleMesh(verts, inds, b)
	if int(inds[indsPerBubble]) != vertsPerBubble {
		t.Errorf("second mesh starts at index %d, want %d", inds[indsPerBubble], vertsPerBubble)
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		r, g, b float64
	}{
		{0, 1, 0.5, 1, 0, 0},
		{120, 1, 0.5, 0, 1, 0},
		{240, 1, 0.5, 0, 0, 1},
		{0, 1, 0.75, 1, 0.5, 0.5},
		{60, 1, 0.75, 1, 1, 0.5},
		{360, 1, 0.5, 1, 0, 0},
		{-120, 1, 0.5, 0, 0, 1},
		{0, 0, 0.3, 0.3, 0.3, 0.3},
	}
	for _, tt := range tests {
		r, g, b := HSL(tt.h, tt.s, tt.l)
		if math.Abs(r-tt.r) > 1e-9 || math.Abs(g-tt.g) > 1e-9 || math.Abs(b-tt.b) > 1e-9 {
			t.Errorf("HSL(%v, %v, %v) = (%v, %v, %v), want (%v, %v, %v)",
				tt.h, tt.s, tt.l, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0, A: 0.5}.toRGBA()
	want := color.RGBA{R: 127, G: 63, B: 0, A: 127}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}
