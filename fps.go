package bubblepop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hud is the top-left overlay showing FPS, TPS, population and pop count.
// The text is refreshed every ~0.5 seconds into its own image.
type hud struct {
	img        *ebiten.Image
	lastUpdate float64
	text       string
}

func newHUD() *hud {
	return &hud{lastUpdate: hudInterval}
}

const hudInterval = 0.5

func (h *hud) update(dt float64) {
	h.lastUpdate += dt
}

// refresh rebuilds the text if the interval elapsed. Returns true if it did.
func (h *hud) refresh(s *Scene) bool {
	if h.lastUpdate < hudInterval {
		return false
	}
	h.lastUpdate = 0
	h.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nBubbles: %d\nPops: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), len(s.bubbles), s.pops)
	return true
}

func (h *hud) draw(screen *ebiten.Image, s *Scene) {
	if h.img == nil {
		// 110x68 is enough for four DebugPrint lines.
		h.img = ebiten.NewImage(110, 68)
	}
	if h.refresh(s) {
		h.img.Clear()
		// Semi-transparent background for readability
		h.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(h.img, h.text)
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(h.img, &op)
}
