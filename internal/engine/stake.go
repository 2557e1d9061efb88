package engine

import (
	"math"

	"github.com/sawpanic/courtline/internal/config"
)

// Stake is the edge and sizing verdict for a fair line against a market line.
type Stake struct {
	FairLine   float64 `json:"fair_line"`
	MarketLine float64 `json:"market_line"`
	RawEdge    float64 `json:"raw_edge"`
	CappedEdge float64 `json:"capped_edge"`
	Capped     bool    `json:"capped"`
	KellyPct   float64 `json:"kelly_pct"`
	Pick       string  `json:"pick"`
}

// PickSide returns which side the model backs: home iff the fair line is
// below the market line (the market overprices the home side), away
// otherwise.
func PickSide(fair, market float64) string {
	if fair < market {
		return "home"
	}
	return "away"
}

// Kelly sizes a bet as a percent of bankroll from an edge: win probability is
// a linear ramp over the edge clamped to the configured band,
// pushed through the Kelly criterion at the configured odds and fraction.
// Never negative.
func Kelly(edge float64, cfg config.KellyConfig) float64 {
	p := cfg.ProbBase + edge*cfg.ProbSlope
	p = math.Max(cfg.ProbFloor, math.Min(cfg.ProbCeiling, p))

	b := cfg.Odds
	k := ((b*p - (1 - p)) / b) * cfg.QuarterFraction * 100
	if k < 0 {
		k = 0
	}
	return Round2(k)
}

// ComputeEdgeAndStake turns a fair/market pair into the full staking verdict.
// The raw edge is |fair - market| rounded to cents; the capped edge is
// clamped at the cap. Kelly is sized from the CAPPED edge, so an outlier fair
// line inflates neither the recorded edge nor the stake.
func ComputeEdgeAndStake(fair, market float64, cfg config.ModelConfig) Stake {
	raw := Round2(math.Abs(fair - market))
	capped := raw
	wasCapped := false
	if capped > cfg.EdgeCap {
		capped = cfg.EdgeCap
		wasCapped = true
	}

	return Stake{
		FairLine:   fair,
		MarketLine: market,
		RawEdge:    raw,
		CappedEdge: capped,
		Capped:     wasCapped,
		KellyPct:   Kelly(capped, cfg.Kelly),
		Pick:       PickSide(fair, market),
	}
}
