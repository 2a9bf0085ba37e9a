package bubblepop

import "math"

// Tuning holds every numeric constant of the bubble lifecycle. The zero value
// is not useful; start from DefaultTuning and override fields.
type Tuning struct {
	// InitialBubbles is the population created by Reset.
	InitialBubbles int
	// SpawnRadius is the starting radius of every bubble and the floor used
	// when computing a split child's growth ceiling.
	SpawnRadius float64
	// GrowthStep is added to the radius each tick while growing.
	GrowthStep float64
	// WobbleAmplitude scales sin(phase) before it is added to Y each tick.
	WobbleAmplitude float64
	// Speed is the range of each velocity component in units per tick.
	Speed Range
	// MaxRadius is the growth ceiling range for bubbles created by Reset.
	MaxRadius Range
	// WobbleSpeed is the range of phase advance per tick, in radians.
	WobbleSpeed Range
}

// DefaultTuning returns the stock lifecycle constants.
func DefaultTuning() Tuning {
	return Tuning{
		InitialBubbles:  15,
		SpawnRadius:     5,
		GrowthStep:      0.5,
		WobbleAmplitude: 0.5,
		Speed:           Range{Min: -0.75, Max: 0.75},
		MaxRadius:       Range{Min: 20, Max: 50},
		WobbleSpeed:     Range{Min: 0.01, Max: 0.06},
	}
}

// wobblePhaseRange covers a full turn.
var wobblePhaseRange = Range{Min: 0, Max: 2 * math.Pi}
