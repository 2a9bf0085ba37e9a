package bubblepop

import (
	"math"
	"testing"
)

func testBubble(x, y, r, maxR float64) *Bubble {
	return &Bubble{X: x, Y: y, Radius: r, MaxRadius: maxR, Growing: true}
}

func TestBubbleStepBouncesOnWalls(t *testing.T) {
	tuning := DefaultTuning()
	tuning.WobbleAmplitude = 0
	bounds := Rect{Width: 200, Height: 100}

	tests := []struct {
		name           string
		x, y, dx, dy   float64
		wantDX, wantDY float64
	}{
		{"left touching", 10, 50, -1, 0, 1, 0},
		{"right touching", 190, 50, 1, 0, -1, 0},
		{"top touching", 100, 10, 0, -1, 0, 1},
		{"bottom touching", 100, 90, 0, 1, 0, -1},
		{"inside", 100, 50, 1, 1, 1, 1},
		{"corner", 10, 10, -1, -1, 1, 1},
		{"horizontal leaves dy", 10, 50, -1, 0.25, 1, 0.25},
		{"vertical leaves dx", 100, 90, 0.25, 1, 0.25, -1},
	}
	for _, tt := range tests {
		b := testBubble(tt.x, tt.y, 10, 10)
		b.DX, b.DY = tt.dx, tt.dy
		b.Step(bounds, &tuning)
		if b.DX != tt.wantDX || b.DY != tt.wantDY {
			t.Errorf("%s: velocity = (%v, %v), want (%v, %v)", tt.name, b.DX, b.DY, tt.wantDX, tt.wantDY)
		}
		if b.X != tt.x+tt.wantDX || b.Y != tt.y+tt.wantDY {
			t.Errorf("%s: position = (%v, %v), want (%v, %v)", tt.name, b.X, b.Y, tt.x+tt.wantDX, tt.y+tt.wantDY)
		}
	}
}

func TestBubbleStepWobble(t *testing.T) {
	tuning := DefaultTuning()
	b := testBubble(100, 100, 10, 10)
	b.WobbleSpeed = math.Pi / 2

	b.Step(Rect{Width: 200, Height: 200}, &tuning)

	if b.WobblePhase != math.Pi/2 {
		t.Errorf("WobblePhase = %v, want %v", b.WobblePhase, math.Pi/2)
	}
	if math.Abs(b.Y-100.5) > 1e-9 {
		t.Errorf("Y = %v, want 100.5", b.Y)
	}
}

func TestBubbleGrowthClampsAtMax(t *testing.T) {
	tuning := DefaultTuning()
	tuning.WobbleAmplitude = 0
	b := testBubble(100, 100, 19.8, 20)

	b.Step(Rect{Width: 200, Height: 200}, &tuning)
	if b.Radius != 20 {
		t.Errorf("Radius = %v, want 20", b.Radius)
	}
	if b.Growing {
		t.Error("Growing should be false once the ceiling is reached")
	}

	b.Step(Rect{Width: 200, Height: 200}, &tuning)
	if b.Radius != 20 {
		t.Errorf("Radius after extra step = %v, want 20", b.Radius)
	}
}

func TestBubbleGrowthSteps(t *testing.T) {
	tuning := DefaultTuning()
	tuning.WobbleAmplitude = 0
	b := testBubble(100, 100, 5, 20)
	for range 10 {
		b.Step(Rect{Width: 200, Height: 200}, &tuning)
	}
	if b.Radius != 10 {
		t.Errorf("Radius = %v, want 10", b.Radius)
	}
	if !b.Growing {
		t.Error("Growing should still be true")
	}
}

func TestBubbleContainsIsStrict(t *testing.T) {
	b := testBubble(50, 50, 10, 10)
	if !b.Contains(50, 50) {
		t.Error("center should be inside")
	}
	if !b.Contains(59.9, 50) {
		t.Error("point just inside should be inside")
	}
	if b.Contains(60, 50) {
		t.Error("point on the circumference should be outside")
	}
}
