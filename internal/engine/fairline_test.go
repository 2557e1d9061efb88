package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/snapshot"
)

func baseSnapshots() *snapshot.Snapshots {
	return &snapshot.Snapshots{
		Ratings: &snapshot.Ratings{
			Teams: map[string]snapshot.TeamRatings{
				"Boston Celtics": {TeamName: "Boston Celtics", OffRating: 118, DefRating: 112, NetRating: 6, Pace: 100},
				"Miami Heat":     {TeamName: "Miami Heat", OffRating: 114, DefRating: 116, NetRating: -2, Pace: 98},
			},
		},
	}
}

func model() config.ModelConfig { return config.Default().Model }

func TestRegress(t *testing.T) {
	assert.InDelta(t, 117.375, Regress(118, 115.5, 0.75), 1e-9)
	assert.InDelta(t, 112.875, Regress(112, 115.5, 0.75), 1e-9)
	assert.InDelta(t, 114.375, Regress(114, 115.5, 0.75), 1e-9)
	assert.InDelta(t, 115.875, Regress(116, 115.5, 0.75), 1e-9)
}

func TestRegressIdentityAndFlatten(t *testing.T) {
	// Factor 1.0 keeps the raw rating; 0.0 flattens to baseline.
	assert.Equal(t, 118.0, Regress(118, 115.5, 1.0))
	assert.Equal(t, 115.5, Regress(118, 115.5, 0.0))
	// Repeated application at 1.0 is idempotent.
	assert.Equal(t, Regress(Regress(118, 115.5, 1.0), 115.5, 1.0), Regress(118, 115.5, 1.0))
}

func TestPaceMultiplier(t *testing.T) {
	assert.InDelta(t, 0.99, PaceMultiplier(100, 98), 1e-9)
	assert.InDelta(t, 1.0, PaceMultiplier(100, 100), 1e-9)
}

func TestHomeCourtStrategies(t *testing.T) {
	assert.Equal(t, 3.0, HomeCourt(HCAFlat, 3.0, 6, -2))
	// Scaled variant adds the net gap over 20: 3.0 + 8/20.
	assert.InDelta(t, 3.4, HomeCourt(HCANetRatingScaled, 3.0, 6, -2), 1e-9)
}

func TestComputeFairLineBaseScenario(t *testing.T) {
	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", baseSnapshots(), model())
	require.NoError(t, err)

	assert.Equal(t, "Boston Celtics", f.HomeTeam)
	assert.Equal(t, "Miami Heat", f.AwayTeam)
	assert.InDelta(t, 117.375, f.HomeOffRegressed, 1e-9)
	assert.InDelta(t, 112.875, f.HomeDefRegressed, 1e-9)
	assert.InDelta(t, 114.375, f.AwayOffRegressed, 1e-9)
	assert.InDelta(t, 115.875, f.AwayDefRegressed, 1e-9)
	assert.InDelta(t, 0.99, f.PaceMultiplier, 1e-9)

	// (117.375-115.875) - (114.375-112.875) = 0, so the fair line is pure HCA.
	assert.InDelta(t, 0.0, f.MatchupComponent, 1e-9)
	assert.Equal(t, 3.0, f.HomeCourt)
	assert.Equal(t, 0.0, f.RestAdjustment)
	assert.Equal(t, 3.0, f.Value)
	assert.True(t, f.StarTaxUnavailable(), "no star tax cache loaded")
}

func TestComputeFairLineMatchupComponent(t *testing.T) {
	snaps := baseSnapshots()
	heat := snaps.Ratings.Teams["Miami Heat"]
	heat.DefRating = 115 // regressed 115.125
	snaps.Ratings.Teams["Miami Heat"] = heat

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)

	// (117.375-115.125) - (114.375-112.875) = 0.75, scaled by pace 0.99.
	assert.InDelta(t, 0.7425, f.MatchupComponent, 1e-9)
	assert.Equal(t, 3.74, f.Value)
}

func TestComputeFairLineDeterministic(t *testing.T) {
	snaps := baseSnapshots()
	first, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeFairLineFuzzyNames(t *testing.T) {
	f, err := ComputeFairLine("Heat", "Celtics", baseSnapshots(), model())
	require.NoError(t, err)
	assert.Equal(t, "Boston Celtics", f.HomeTeam)
	assert.Equal(t, "Miami Heat", f.AwayTeam)
}

func TestComputeFairLineTeamNotFound(t *testing.T) {
	_, err := ComputeFairLine("Seattle SuperSonics", "Boston Celtics", baseSnapshots(), model())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.Contains(t, err.Error(), "Seattle SuperSonics")
	assert.Contains(t, err.Error(), "closest")
}

func TestComputeFairLineRestAdjustment(t *testing.T) {
	snaps := baseSnapshots()
	snaps.Rest = &snapshot.Rest{Penalties: map[string]float64{
		"Boston Celtics": -2.5, // home on a back-to-back
	}}

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)
	assert.Equal(t, -2.5, f.RestAdjustment)
	assert.Equal(t, 0.5, f.Value) // 3.0 HCA - 2.5 rest
}

func TestRestPenaltyMagnitudeIsConfigured(t *testing.T) {
	// The cache marks who sits on zero days' rest; the points charged come
	// from the model, so a stale scrape value never leaks into the line.
	snaps := baseSnapshots()
	snaps.Rest = &snapshot.Rest{Penalties: map[string]float64{
		"Boston Celtics": -3.0,
	}}
	cfg := model()
	cfg.BackToBackPenalty = -2.0

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, cfg)
	require.NoError(t, err)
	assert.Equal(t, -2.0, f.RestAdjustment)
	assert.Equal(t, 1.0, f.Value) // 3.0 HCA - 2.0 rest
}

func TestComputeFairLineStarTax(t *testing.T) {
	snaps := baseSnapshots()
	snaps.StarTax = &snapshot.StarTax{Teams: map[string]snapshot.StarTaxTeam{
		"1610612738": {TeamName: "Boston Celtics", Players: map[string]float64{
			"jayson tatum": 8.2, "jrue holiday": 3.1,
		}},
		"1610612748": {TeamName: "Miami Heat", Players: map[string]float64{}},
	}}
	snaps.Injuries = &snapshot.Injuries{ByTeam: map[string][]snapshot.InjuryRow{
		"Boston Celtics": {
			{Team: "Boston Celtics", Player: "Jayson Tatum", Status: "Out"},
			{Team: "Boston Celtics", Player: "Jrue Holiday", Status: "Questionable"},
		},
	}}

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)

	// (1.0*8.2 + 0.5*3.1) / 2 = 4.875 off the home side.
	require.True(t, f.HomeStarTax.Available)
	assert.InDelta(t, 4.875, f.HomeStarTax.Points, 1e-9)
	assert.True(t, f.AwayStarTax.Available)
	assert.Equal(t, 0.0, f.AwayStarTax.Points)
	assert.False(t, f.StarTaxUnavailable())
	assert.Equal(t, []string{"Jrue Holiday"}, f.QuestionableHome)
	assert.Equal(t, -1.88, f.Value) // 3.0 - 4.875, rounded
}

func TestComputeFairLineStarTaxUnavailable(t *testing.T) {
	snaps := baseSnapshots()
	snaps.StarTax = &snapshot.StarTax{Teams: map[string]snapshot.StarTaxTeam{
		"1610612738": {TeamName: "Boston Celtics", Err: "fetch timeout"},
		"1610612748": {TeamName: "Miami Heat", Players: map[string]float64{}},
	}}

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)

	// Errored side contributes zero points AND trips the sentinel.
	assert.False(t, f.HomeStarTax.Available)
	assert.Equal(t, 0.0, f.HomeStarTax.Points)
	assert.True(t, f.StarTaxUnavailable())
	assert.Equal(t, 3.0, f.Value)
}

func TestComputeFairLineQuestionableSurviveOutage(t *testing.T) {
	// An on/off cache outage zeroes the tax, but the questionable list comes
	// from the injury report and must keep feeding the confidence grade.
	snaps := baseSnapshots()
	snaps.StarTax = &snapshot.StarTax{Teams: map[string]snapshot.StarTaxTeam{
		"1610612738": {TeamName: "Boston Celtics", Err: "fetch timeout"},
		"1610612748": {TeamName: "Miami Heat", Players: map[string]float64{}},
	}}
	snaps.Injuries = &snapshot.Injuries{ByTeam: map[string][]snapshot.InjuryRow{
		"Boston Celtics": {
			{Team: "Boston Celtics", Player: "Jayson Tatum", Status: "Questionable"},
			{Team: "Boston Celtics", Player: "Jrue Holiday", Status: "Questionable"},
		},
	}}

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)

	assert.False(t, f.HomeStarTax.Available)
	assert.Equal(t, 0.0, f.HomeStarTax.Points)
	assert.Equal(t, []string{"Jayson Tatum", "Jrue Holiday"}, f.QuestionableHome)

	grade, _ := Confidence(f)
	assert.Equal(t, ConfidenceLow, grade)
}

func TestComputeFairLineFuzzyTieBreaksDeterministically(t *testing.T) {
	// "Team X" sits at the same similarity ratio from both candidates; the
	// winner must not depend on map iteration order.
	snaps := &snapshot.Snapshots{
		Ratings: &snapshot.Ratings{
			Teams: map[string]snapshot.TeamRatings{
				"Team A": {TeamName: "Team A", Pace: 100},
				"Team B": {TeamName: "Team B", Pace: 100},
			},
		},
	}
	for i := 0; i < 50; i++ {
		f, err := ComputeFairLine("Team X", "Team B", snaps, model())
		require.NoError(t, err)
		assert.Equal(t, "Team A", f.AwayTeam)
	}
}

func TestComputeFairLineNewsGate(t *testing.T) {
	snaps := baseSnapshots()
	snaps.News = &snapshot.News{Items: []snapshot.NewsItem{
		{Title: "Tatum a late scratch for Celtics tonight"},
		{Title: "Lakers coach fired after slow start"}, // neither team: no effect
		{Title: "Heat coach fired before road trip"},
	}}

	f, err := ComputeFairLine("Miami Heat", "Boston Celtics", snaps, model())
	require.NoError(t, err)

	// -2 late scratch (Celtics) + -1 coach fired (Heat); Lakers item gated out.
	assert.Equal(t, -3.0, f.NewsFactor)
	assert.Len(t, f.NewsHits, 2)
	assert.Equal(t, 0.0, f.Value) // 3.0 HCA - 3.0 news
}

func TestNewsFactorNoMatchingItems(t *testing.T) {
	news := &snapshot.News{Items: []snapshot.NewsItem{
		{Title: "Lakers star a late scratch"},
		{Title: "Nuggets coach fired"},
	}}
	factor, hits := NewsFactor(news, newsKeywords("Miami Heat", "Boston Celtics", "Heat", "Celtics"), model())
	assert.Equal(t, 0.0, factor)
	assert.Empty(t, hits)
}

func TestConfidenceGrades(t *testing.T) {
	f := &FairLine{
		HomeStarTax: StarTax{Available: true},
		AwayStarTax: StarTax{Available: true},
	}
	grade, _ := Confidence(f)
	assert.Equal(t, ConfidenceHigh, grade)

	f.QuestionableHome = []string{"A"}
	grade, reason := Confidence(f)
	assert.Equal(t, ConfidenceMedium, grade)
	assert.Contains(t, reason, "one questionable")

	f.QuestionableAway = []string{"B"}
	grade, _ = Confidence(f)
	assert.Equal(t, ConfidenceLow, grade)

	f = &FairLine{HomeStarTax: StarTax{Available: false}, AwayStarTax: StarTax{Available: true}}
	grade, reason = Confidence(f)
	assert.Equal(t, ConfidenceMedium, grade)
	assert.Contains(t, reason, "unavailable")
}
