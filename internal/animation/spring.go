package animation

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// SpringConfig tunes the spring used to sample frames.
type SpringConfig struct {
	FPS       int
	Frequency float64
	Damping   float64
	MaxFrames int
	Epsilon   float64
}

// DefaultSpring is a under-damped spring sampled at 60 fps.
func DefaultSpring() SpringConfig {
	return SpringConfig{
		FPS:       60,
		Frequency: 8.0,
		Damping:   0.7,
		MaxFrames: 300,
		Epsilon:   0.01,
	}
}

// Settle returns the positions of an element springing from one offset to
// another, one per frame. Sampling stops once the element is at rest
// within Epsilon of the target, in which case the last frame is exactly
// the target, or after MaxFrames frames.
func Settle(from, to float64, cfg SpringConfig) []float64 {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultSpring().FPS
	}
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = DefaultSpring().MaxFrames
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultSpring().Epsilon
	}

	if from == to {
		return []float64{to}
	}

	spring := harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.Damping)
	frames := make([]float64, 0, cfg.MaxFrames)

	pos, vel := from, 0.0
	for i := 0; i < cfg.MaxFrames; i++ {
		pos, vel = spring.Update(pos, vel, to)
		if math.Abs(pos-to) < cfg.Epsilon && math.Abs(vel) < cfg.Epsilon {
			frames = append(frames, to)
			break
		}
		frames = append(frames, pos)
	}

	return frames
}
