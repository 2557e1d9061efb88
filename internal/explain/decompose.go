// Package explain re-runs the fair-line model while keeping every
// intermediate term, for factor attribution and for replaying recorded bets
// under the current model. Nothing here mutates stored state.
package explain

import (
	"math"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/engine"
	"github.com/sawpanic/courtline/internal/snapshot"
)

// Decomposition is a FairLine plus the counterfactual terms: the
// pre-regression differential and the superseded net-rating-scaled
// home-court formula, so a model change can be quantified bet by bet.
type Decomposition struct {
	engine.FairLine

	PreRegressionDiff  float64 `json:"pre_regression_diff"`
	PostRegressionDiff float64 `json:"post_regression_diff"`
	RegressionImpact   float64 `json:"regression_impact"`

	SupersededHomeCourt float64 `json:"superseded_home_court"`
	SupersededFairLine  float64 `json:"superseded_fair_line"`

	MarketLine *float64 `json:"market_line,omitempty"`
	NewEdge    *float64 `json:"new_edge,omitempty"`
	OldEdge    *float64 `json:"old_edge,omitempty"`

	HomeInjuries []snapshot.InjuryRow `json:"home_injuries,omitempty"`
	AwayInjuries []snapshot.InjuryRow `json:"away_injuries,omitempty"`
}

// Decompose computes the full factor breakdown for a matchup. market may be
// nil when no line is known; the edge pair is only populated with one.
func Decompose(away, home string, market *float64, snaps *snapshot.Snapshots, cfg config.ModelConfig) (*Decomposition, error) {
	f, err := engine.ComputeFairLine(away, home, snaps, cfg)
	if err != nil {
		return nil, err
	}

	d := &Decomposition{FairLine: *f}

	d.PreRegressionDiff = (f.HomeOffRaw - f.AwayDefRaw) - (f.AwayOffRaw - f.HomeDefRaw)
	d.PostRegressionDiff = (f.HomeOffRegressed - f.AwayDefRegressed) - (f.AwayOffRegressed - f.HomeDefRegressed)
	// Regression impact stays in raw rating points, before pace scaling, so it
	// reads as "how much the blend moved the matchup".
	d.RegressionImpact = engine.Round2(d.PostRegressionDiff - d.PreRegressionDiff)

	homeNet := snaps.Ratings.Teams[f.HomeTeam].NetRating
	awayNet := snaps.Ratings.Teams[f.AwayTeam].NetRating
	d.SupersededHomeCourt = engine.HomeCourt(engine.HCANetRatingScaled,
		cfg.HomeCourtAdvantage, homeNet, awayNet)

	// The superseded model used raw ratings and the scaled home court; every
	// other factor carries over unchanged.
	d.SupersededFairLine = engine.Round2(d.PreRegressionDiff*f.PaceMultiplier +
		d.SupersededHomeCourt + f.RestAdjustment -
		f.HomeStarTax.Points + f.AwayStarTax.Points + f.NewsFactor)

	if snaps.Injuries != nil {
		d.HomeInjuries = snaps.Injuries.Team(f.HomeTeam)
		d.AwayInjuries = snaps.Injuries.Team(f.AwayTeam)
	}

	if market != nil {
		m := *market
		newEdge := engine.Round2(math.Abs(f.Value - m))
		oldEdge := engine.Round2(math.Abs(d.SupersededFairLine - m))
		d.MarketLine = &m
		d.NewEdge = &newEdge
		d.OldEdge = &oldEdge
	}

	return d, nil
}
