// Package engine computes fair point spreads from the snapshot caches: the
// regression-blended rating matchup, pace normalization, home court, rest,
// star-tax and news adjustments, then edge and stake sizing against a market
// line. Every function is pure over its inputs; identical snapshots always
// produce identical results.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/nba"
	"github.com/sawpanic/courtline/internal/snapshot"
)

// HCAStrategy selects the home-court formula. Flat is the production model;
// the net-rating-scaled variant double-counted the rating differential and
// survives only for counterfactual decomposition.
type HCAStrategy int

const (
	HCAFlat HCAStrategy = iota
	HCANetRatingScaled
)

// FairLine is the full output of one computation, intermediates included.
// It is recomputed on every call and never mutated.
type FairLine struct {
	AwayTeam string `json:"away_team"`
	HomeTeam string `json:"home_team"`

	HomeOffRaw float64 `json:"home_off_raw"`
	HomeDefRaw float64 `json:"home_def_raw"`
	AwayOffRaw float64 `json:"away_off_raw"`
	AwayDefRaw float64 `json:"away_def_raw"`

	HomeOffRegressed float64 `json:"home_off_regressed"`
	HomeDefRegressed float64 `json:"home_def_regressed"`
	AwayOffRegressed float64 `json:"away_off_regressed"`
	AwayDefRegressed float64 `json:"away_def_regressed"`

	PaceMultiplier   float64 `json:"pace_multiplier"`
	MatchupComponent float64 `json:"matchup_component"`
	HomeCourt        float64 `json:"home_court"`
	RestAdjustment   float64 `json:"rest_adjustment"`

	HomeStarTax StarTax `json:"home_star_tax"`
	AwayStarTax StarTax `json:"away_star_tax"`

	NewsFactor float64  `json:"news_factor"`
	NewsHits   []string `json:"news_hits,omitempty"`

	QuestionableHome []string `json:"questionable_home,omitempty"`
	QuestionableAway []string `json:"questionable_away,omitempty"`

	Value float64 `json:"fair_line"`
}

// StarTaxUnavailable reports whether either side's star on/off data could not
// be used. The numeric contributions are zero in that case; this flag is how
// callers tell "healthy roster" apart from "no data".
func (f *FairLine) StarTaxUnavailable() bool {
	return !f.HomeStarTax.Available || !f.AwayStarTax.Available
}

// Regress blends a raw rating toward the league baseline: the team keeps
// `factor` weight, the baseline gets the rest. Factor 1.0 is identity, 0.0
// flattens to baseline.
func Regress(raw, baseline, factor float64) float64 {
	return raw*factor + baseline*(1-factor)
}

// PaceMultiplier converts the two teams' possession counts into a scale on
// the per-100 matchup differential: mean pace over 100.
func PaceMultiplier(homePace, awayPace float64) float64 {
	return (homePace + awayPace) / 2 / 100
}

// HomeCourt returns the home-court points under a strategy. The scaled
// variant adds the net-rating gap over 20 on top of the flat value.
func HomeCourt(strategy HCAStrategy, flat, homeNet, awayNet float64) float64 {
	switch strategy {
	case HCANetRatingScaled:
		return flat + (homeNet-awayNet)/20
	default:
		return flat
	}
}

// ErrTeamNotFound is wrapped by ComputeFairLine when a requested name cannot
// be resolved against the ratings table.
var ErrTeamNotFound = fmt.Errorf("team not found")

// resolveRated resolves a free-text name against the teams present in the
// ratings cache and returns the matching row. The candidate list is sorted so
// fuzzy-ratio ties break the same way on every run.
func resolveRated(name string, ratings *snapshot.Ratings) (string, snapshot.TeamRatings, error) {
	canon := make([]string, 0, len(ratings.Teams))
	for team := range ratings.Teams {
		canon = append(canon, team)
	}
	sort.Strings(canon)
	res := nba.Resolve(name, canon)
	if !res.Resolved {
		if res.Guess != "" {
			return "", snapshot.TeamRatings{}, fmt.Errorf("%w: %q not in ratings table (closest: %q)",
				ErrTeamNotFound, name, res.Guess)
		}
		return "", snapshot.TeamRatings{}, fmt.Errorf("%w: %q not in ratings table", ErrTeamNotFound, name)
	}
	return res.Name, ratings.Teams[res.Name], nil
}

// restPenalty maps a team's cached rest state to points. The cache marks who
// is on zero days' rest; the penalty magnitude is a model constant, so
// retuning it never needs a fresh scrape.
func restPenalty(rest *snapshot.Rest, team string, cfg config.ModelConfig) float64 {
	if rest.Penalty(team) == 0 {
		return 0
	}
	return cfg.BackToBackPenalty
}

// ComputeFairLine runs the full model for one matchup. Ratings are required;
// missing situational caches degrade to zero adjustments with the star-tax
// sentinel set where applicable.
func ComputeFairLine(away, home string, snaps *snapshot.Snapshots, cfg config.ModelConfig) (*FairLine, error) {
	if snaps == nil || snaps.Ratings == nil {
		return nil, fmt.Errorf("ratings snapshot is required")
	}

	homeName, homeRatings, err := resolveRated(home, snaps.Ratings)
	if err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	awayName, awayRatings, err := resolveRated(away, snaps.Ratings)
	if err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}

	f := &FairLine{
		AwayTeam:   awayName,
		HomeTeam:   homeName,
		HomeOffRaw: homeRatings.OffRating,
		HomeDefRaw: homeRatings.DefRating,
		AwayOffRaw: awayRatings.OffRating,
		AwayDefRaw: awayRatings.DefRating,
	}

	f.HomeOffRegressed = Regress(f.HomeOffRaw, cfg.BaselineOffense, cfg.RegressFactor)
	f.HomeDefRegressed = Regress(f.HomeDefRaw, cfg.BaselineDefense, cfg.RegressFactor)
	f.AwayOffRegressed = Regress(f.AwayOffRaw, cfg.BaselineOffense, cfg.RegressFactor)
	f.AwayDefRegressed = Regress(f.AwayDefRaw, cfg.BaselineDefense, cfg.RegressFactor)

	f.PaceMultiplier = PaceMultiplier(homeRatings.Pace, awayRatings.Pace)
	diff := (f.HomeOffRegressed - f.AwayDefRegressed) - (f.AwayOffRegressed - f.HomeDefRegressed)
	f.MatchupComponent = diff * f.PaceMultiplier

	f.HomeCourt = HomeCourt(HCAFlat, cfg.HomeCourtAdvantage, homeRatings.NetRating, awayRatings.NetRating)
	f.RestAdjustment = restPenalty(snaps.Rest, homeName, cfg) - restPenalty(snaps.Rest, awayName, cfg)

	f.HomeStarTax, f.QuestionableHome = computeStarTax(homeName, snaps)
	f.AwayStarTax, f.QuestionableAway = computeStarTax(awayName, snaps)

	f.NewsFactor, f.NewsHits = NewsFactor(snaps.News, newsKeywords(awayName, homeName, away, home), cfg)

	f.Value = Round2(f.MatchupComponent + f.HomeCourt + f.RestAdjustment -
		f.HomeStarTax.Points + f.AwayStarTax.Points + f.NewsFactor)

	log.Info().
		Str("away", awayName).Str("home", homeName).
		Float64("fair_line", f.Value).
		Float64("matchup", f.MatchupComponent).
		Float64("rest", f.RestAdjustment).
		Float64("home_tax", f.HomeStarTax.Points).
		Float64("away_tax", f.AwayStarTax.Points).
		Float64("news", f.NewsFactor).
		Bool("star_tax_unavailable", f.StarTaxUnavailable()).
		Msg("fair line computed")

	return f, nil
}

// Round2 rounds half away from zero to two decimals, matching how lines and
// edges are quoted.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
