package bubblepop

import (
	"time"

	"github.com/phanxgames/bubblepop/internal/logging"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	meshTime      time.Duration
	submitTime    time.Duration
	vertexCount   int
	triangleCount int
	drawCallCount int
}

// debugLog writes timing and draw-call stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug(s.ctx(), "draw",
		logging.F("mesh", stats.meshTime),
		logging.F("submit", stats.submitTime),
		logging.F("total", stats.meshTime+stats.submitTime),
		logging.F("vertices", stats.vertexCount),
		logging.F("triangles", stats.triangleCount),
		logging.F("draw_calls", stats.drawCallCount))
}

// debugMaxBubbles is the population above which debug mode warns once per
// doubling. Splits never remove bubbles, so long sessions keep growing.
const debugMaxBubbles = 1000

func (s *Scene) debugCheckPopulation() {
	if !s.debug || len(s.bubbles) < s.populationWarnAt {
		return
	}
	s.logger.Warn(s.ctx(), "bubble population is large",
		logging.F("bubbles", len(s.bubbles)))
	s.populationWarnAt *= 2
}
