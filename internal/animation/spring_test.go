package animation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleReachesTarget(t *testing.T) {
	t.Parallel()

	frames := Settle(0, 150, DefaultSpring())

	require.NotEmpty(t, frames)
	assert.Less(t, len(frames), DefaultSpring().MaxFrames, "default spring should come to rest")
	assert.Equal(t, 150.0, frames[len(frames)-1])
	assert.Greater(t, frames[0], 0.0, "first frame moves toward the target")
}

func TestSettleSameOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{42}, Settle(42, 42, DefaultSpring()))
}

func TestSettleCapsFrames(t *testing.T) {
	t.Parallel()

	cfg := DefaultSpring()
	cfg.MaxFrames = 5
	frames := Settle(0, 1000, cfg)

	assert.Len(t, frames, 5)
	for _, f := range frames {
		assert.False(t, math.IsNaN(f))
	}
}

func TestSettleIsDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Settle(10, -30, DefaultSpring()), Settle(10, -30, DefaultSpring()))
}
