package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/courtline/internal/config"
)

func TestKellyKnownValues(t *testing.T) {
	k := config.Default().Model.Kelly

	// Edge 5.75: p = 0.524 + 5.75*0.015 = 0.61025.
	assert.Equal(t, 4.55, Kelly(5.75, k))
	// Edge 10: p = 0.674.
	assert.Equal(t, 7.89, Kelly(10, k))
	// Ceiling: any edge past ~11.7 pins p at 0.70.
	assert.Equal(t, 9.26, Kelly(50, k))
	assert.Equal(t, Kelly(12, k), Kelly(100, k))
}

func TestKellyNeverNegative(t *testing.T) {
	k := config.Default().Model.Kelly
	// Probability floor 0.48 makes the raw Kelly negative; it floors at 0.
	k2 := k
	k2.ProbBase = 0.40
	assert.Equal(t, 0.0, Kelly(0, k2))

	for edge := 0.0; edge <= 30; edge += 0.5 {
		v := Kelly(edge, k)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 25.0)
	}
}

func TestPickSide(t *testing.T) {
	// Fair below market: market overprices home, back home.
	assert.Equal(t, "home", PickSide(-5, -2.5))
	// Fair above market: back away.
	assert.Equal(t, "away", PickSide(3.25, -2.5))
	// Tie goes away.
	assert.Equal(t, "away", PickSide(-2.5, -2.5))
}

func TestComputeEdgeAndStake(t *testing.T) {
	cfg := config.Default().Model

	s := ComputeEdgeAndStake(3.25, -2.5, cfg)
	assert.Equal(t, 5.75, s.RawEdge)
	assert.Equal(t, 5.75, s.CappedEdge)
	assert.False(t, s.Capped)
	assert.Equal(t, 4.55, s.KellyPct)
	assert.Equal(t, "away", s.Pick)
}

func TestComputeEdgeAndStakeCapping(t *testing.T) {
	cfg := config.Default().Model

	s := ComputeEdgeAndStake(20, 2, cfg)
	assert.Equal(t, 18.0, s.RawEdge)
	assert.Equal(t, 10.0, s.CappedEdge)
	assert.True(t, s.Capped)
	// Kelly sizes from the capped edge, not the raw one.
	assert.Equal(t, Kelly(10, cfg.Kelly), s.KellyPct)

	// Capped never exceeds raw or the cap.
	for _, fair := range []float64{-15, -5, 0, 4.37, 9.99, 25} {
		s := ComputeEdgeAndStake(fair, -2.5, cfg)
		assert.LessOrEqual(t, s.CappedEdge, s.RawEdge)
		assert.LessOrEqual(t, s.CappedEdge, cfg.EdgeCap)
	}
}

func TestComputeEdgeAndStakeRounding(t *testing.T) {
	cfg := config.Default().Model
	s := ComputeEdgeAndStake(3.333, -2.5, cfg)
	assert.Equal(t, 5.83, s.RawEdge)
}
