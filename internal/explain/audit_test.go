package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtline/internal/tracker"
)

func settledBet(id, result, market string) tracker.BetRecord {
	return tracker.BetRecord{
		ID: id, Away: "Miami Heat", Home: "Boston Celtics",
		Fair: "3.0", Market: market, Edge: "5.5", Kelly: "4.4",
		Pick: "away", Result: result, Date: "2026-01-10",
	}
}

func TestAuditReplaysCompletedBets(t *testing.T) {
	records := []tracker.BetRecord{
		settledBet("BET-1", tracker.ResultWin, "-2.5"),
		settledBet("BET-2", tracker.ResultLoss, "0.5"),
		settledBet("BET-3", tracker.ResultPending, "-2.5"), // not settled
	}

	report := Audit(records, testSnaps(), model())
	assert.Equal(t, 2, report.Replayed)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Bets, 2)

	// Current fair line is 3.0 for this matchup.
	assert.Equal(t, 5.5, report.Bets[0].NewEdge)
	assert.Equal(t, 5.9, report.Bets[0].OldEdge)
	assert.Equal(t, 2.5, report.Bets[1].NewEdge)
	assert.InDelta(t, report.AvgOldEdge-report.AvgNewEdge, report.Compression, 1e-9)
}

func TestAuditWouldSkip(t *testing.T) {
	// New edge 2.5 (< 3) while old edge 2.9 (< 5): kept, not a would-skip.
	records := []tracker.BetRecord{settledBet("BET-1", tracker.ResultWin, "0.5")}
	report := Audit(records, testSnaps(), model())
	require.Equal(t, 1, report.Replayed)
	assert.False(t, report.Bets[0].WouldSkip)
	assert.Equal(t, 0, report.WouldSkip)
}

func TestAuditSkipsUnresolvableTeams(t *testing.T) {
	rec := settledBet("BET-1", tracker.ResultWin, "-2.5")
	rec.Away = "Seattle SuperSonics"
	report := Audit([]tracker.BetRecord{rec}, testSnaps(), model())
	assert.Equal(t, 0, report.Replayed)
	assert.Equal(t, 1, report.Skipped)
}

func TestAuditSkipsUnparseableMarket(t *testing.T) {
	rec := settledBet("BET-1", tracker.ResultWin, "N/A")
	report := Audit([]tracker.BetRecord{rec}, testSnaps(), model())
	assert.Equal(t, 0, report.Replayed)
	assert.Equal(t, 1, report.Skipped)
}

func TestContributionReportBuckets(t *testing.T) {
	records := []tracker.BetRecord{
		settledBet("BET-1", tracker.ResultWin, "-2.5"),
		settledBet("BET-2", tracker.ResultLoss, "-2.5"),
		settledBet("BET-3", tracker.ResultPending, "-2.5"),
	}

	report := ContributionReport(records, testSnaps(), model())
	byFactor := map[string]FactorContribution{}
	for _, c := range report {
		byFactor[c.Factor] = c
	}

	// Both settled bets share the same matchup, so averages equal the
	// single-game values: home court 3.0 everywhere, matchup 0.
	assert.Equal(t, 3.0, byFactor["home court"].All)
	assert.Equal(t, 3.0, byFactor["home court"].Wins)
	assert.Equal(t, 3.0, byFactor["home court"].Losses)
	assert.Equal(t, 0.0, byFactor["matchup"].All)
}

func TestModelHealthSmallSample(t *testing.T) {
	records := []tracker.BetRecord{settledBet("BET-1", tracker.ResultWin, "-2.5")}
	report := ModelHealth(records)
	assert.Equal(t, 1, report.Sample)
	require.NotEmpty(t, report.Findings)
	assert.Contains(t, report.Findings[0], "below 30")
}

func TestModelHealthWinRateAndTiers(t *testing.T) {
	var records []tracker.BetRecord
	// 20 wins at edge 6, 12 losses at edge 1: above breakeven overall,
	// and the higher tier wins more than the lower one.
	for i := 0; i < 20; i++ {
		rec := settledBet("W", tracker.ResultWin, "-2.5")
		rec.Edge = "6.0"
		records = append(records, rec)
	}
	for i := 0; i < 12; i++ {
		rec := settledBet("L", tracker.ResultLoss, "-2.5")
		rec.Edge = "1.0"
		records = append(records, rec)
	}

	report := ModelHealth(records)
	assert.Equal(t, 32, report.Sample)
	assert.InDelta(t, 0.625, report.WinRate, 1e-9)
	assert.Contains(t, report.Findings[0], "clears")

	byTier := map[float64]TierStat{}
	for _, tier := range report.Tiers {
		byTier[tier.Lo] = tier
	}
	assert.Equal(t, 12, byTier[0].Bets)
	assert.Equal(t, 0.0, byTier[0].WinRate)
	assert.Equal(t, 20, byTier[5].Bets)
	assert.Equal(t, 1.0, byTier[5].WinRate)
}
