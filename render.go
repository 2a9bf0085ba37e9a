package bubblepop

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Canvas is the drawing surface the renderer writes to. *ebiten.Image
// satisfies it; tests substitute a recorder.
type Canvas interface {
	Clear()
	Fill(clr color.Color)
	DrawTriangles32(vertices []ebiten.Vertex, indices []uint32, img *ebiten.Image, options *ebiten.DrawTrianglesOptions)
}

// Draw is the ebiten draw hook. Order: clear, bubbles, pop effects, popup,
// HUD, then any queued screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	stats := s.drawTo(screen, ensureWhitePixel())
	if s.popup != nil {
		s.popup.draw(screen)
	}
	if s.ShowHUD {
		s.hud.draw(screen, s)
	}
	s.debugLog(stats)
	s.flushScreenshots(screen)
}

// drawTo clears c exactly once, then submits every bubble in one batched
// call followed by the pop effects in a second call. src is the source
// texture sampled by all vertices (a white pixel in practice).
func (s *Scene) drawTo(c Canvas, src *ebiten.Image) debugStats {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.ClearColor.A > 0 {
		c.Fill(s.ClearColor.toRGBA())
	} else {
		c.Clear()
	}

	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
	if need := len(s.bubbles) * vertsPerBubble; cap(s.verts) < need {
		s.verts = make([]ebiten.Vertex, 0, need)
		s.inds = make([]uint32, 0, len(s.bubbles)*indsPerBubble)
	}
	for _, b := range s.bubbles {
		s.verts, s.inds = appendBubbleMesh(s.verts, s.inds, b)
	}
	if s.debug {
		stats.meshTime = time.Since(t0)
		t0 = time.Now()
	}
	s.submit(c, src, &stats)

	for _, r := range s.rings {
		s.verts, s.inds = r.appendMesh(s.verts, s.inds)
	}
	s.verts, s.inds = s.spray.appendMesh(s.verts, s.inds)
	s.submit(c, src, &stats)

	if s.debug {
		stats.submitTime = time.Since(t0)
	}
	return stats
}

// submit flushes the accumulated vertices as a single DrawTriangles32 call
// and resets the buffers. Empty batches are skipped.
func (s *Scene) submit(c Canvas, src *ebiten.Image, stats *debugStats) {
	if len(s.inds) == 0 {
		s.verts = s.verts[:0]
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.AntiAlias = true

	c.DrawTriangles32(s.verts, s.inds, src, &triOp)

	stats.vertexCount += len(s.verts)
	stats.triangleCount += len(s.inds) / 3
	stats.drawCallCount++
	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
}
