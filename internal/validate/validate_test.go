package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/engine"
	"github.com/sawpanic/courtline/internal/tracker"
)

func model() config.ModelConfig { return config.Default().Model }

func cleanRecord() tracker.BetRecord {
	// fair 3.25 vs market -2.5: raw edge 5.75, uncapped, kelly 4.55, away.
	return tracker.BetRecord{
		ID: "BET-1", Away: "Miami Heat", Home: "Boston Celtics",
		Fair: "3.25", Market: "-2.5", Edge: "5.75", RawEdge: "5.75",
		EdgeCapped: "No", Kelly: "4.55", Pick: "away",
	}
}

func TestCleanRecordHasNoIssues(t *testing.T) {
	rec := cleanRecord()
	assert.Empty(t, Record(&rec, model()))
}

func TestEdgeMismatchIsError(t *testing.T) {
	rec := cleanRecord()
	rec.Fair, rec.Market = "3.0", "-2.0"
	rec.Edge, rec.RawEdge = "8.0", "8.0"
	rec.Kelly = ""

	issues := Record(&rec, model())
	require.NotEmpty(t, issues)

	var edgeIssue *Issue
	for i := range issues {
		if issues[i].Field == "Edge" {
			edgeIssue = &issues[i]
		}
	}
	require.NotNil(t, edgeIssue)
	assert.Equal(t, SeverityError, edgeIssue.Severity)
	// The message quotes both the recorded edge and the recomputed one.
	assert.Contains(t, edgeIssue.Message, "8.00")
	assert.Contains(t, edgeIssue.Message, "5.00")
}

func TestEdgeRecordedUnderOlderCapIsClean(t *testing.T) {
	// Logged when no cap (or a larger one) was in force: the recorded edge
	// equals the raw edge, not today's capped value, and the kelly was sized
	// from it. Neither is a defect.
	rec := tracker.BetRecord{
		ID: "BET-H", Away: "A", Home: "B",
		Fair: "18", Market: "2", Edge: "16", RawEdge: "16",
		Kelly: "9.26", Pick: "away",
	}
	assert.Empty(t, Record(&rec, model()))
}

func TestEdgeWithinToleranceIsClean(t *testing.T) {
	rec := cleanRecord()
	rec.Edge = "5.79" // 0.04 off, inside the 0.05 tolerance
	rec.RawEdge = "5.79"
	issues := Record(&rec, model())
	for _, issue := range issues {
		assert.NotEqual(t, "Edge", issue.Field)
	}
}

func TestNonNumericFieldsAreErrors(t *testing.T) {
	rec := cleanRecord()
	rec.Fair = "N/A"
	rec.Kelly = "abc"

	issues := Record(&rec, model())
	fields := map[string]Severity{}
	for _, issue := range issues {
		fields[issue.Field] = issue.Severity
	}
	assert.Equal(t, SeverityError, fields["Fair"])
	assert.Equal(t, SeverityError, fields["Kelly"])
}

func TestEmptyLegacyFieldsPass(t *testing.T) {
	// 14-column era record: no raw edge, capped flag or confidence.
	rec := tracker.BetRecord{
		ID: "BET-L", Away: "Chicago Bulls", Home: "Atlanta Hawks",
		Fair: "1.0", Market: "2.0", Edge: "1.0", Kelly: "0.81", Pick: "home",
	}
	assert.Empty(t, Record(&rec, model()))
}

func TestCappedFlagMismatchIsWarn(t *testing.T) {
	rec := cleanRecord()
	rec.EdgeCapped = "Yes" // raw edge 5.75 is under the cap
	rec.Kelly = "4.55"

	issues := Record(&rec, model())
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarn, issues[0].Severity)
	assert.Equal(t, "Edge_Capped", issues[0].Field)
}

func TestKellyRecomputedFromCappedEdge(t *testing.T) {
	// fair 20 vs market 2: raw 18, capped at 10, kelly must match Kelly(10).
	rec := tracker.BetRecord{
		ID: "BET-C", Away: "A", Home: "B",
		Fair: "20", Market: "2", Edge: "10", RawEdge: "18",
		EdgeCapped: "Yes", Kelly: "7.89", Pick: "away",
	}
	assert.Empty(t, Record(&rec, model()))

	// Sizing from the raw edge instead would have been flagged.
	rec.Kelly = "9.26"
	issues := Record(&rec, model())
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarn, issues[0].Severity)
	assert.Equal(t, "Kelly", issues[0].Field)
}

func TestKellyToleranceIsLoose(t *testing.T) {
	rec := cleanRecord()
	rec.Kelly = "4.6" // 0.05 off, inside the 0.1 tolerance
	assert.Empty(t, Record(&rec, model()))
}

func TestPickNotASideIsError(t *testing.T) {
	rec := cleanRecord()
	rec.Pick = "Los Angeles Lakers"

	issues := Record(&rec, model())
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, "Pick", issues[0].Field)
	assert.Contains(t, issues[0].Message, "Los Angeles Lakers")
}

func TestPickByTeamNameAccepted(t *testing.T) {
	rec := cleanRecord()
	rec.Pick = "Miami Heat" // the away side, which the model backs
	assert.Empty(t, Record(&rec, model()))
}

func TestPickAgainstModelIsInfo(t *testing.T) {
	rec := cleanRecord()
	rec.Pick = "home" // fair 3.25 > market -2.5 backs away

	issues := Record(&rec, model())
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Equal(t, "Pick", issues[0].Field)

	// A noted override reads the same: a human choice, never a defect.
	rec.Notes = "manual override: sharp money on Boston"
	issues = Record(&rec, model())
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
}

func TestChecksDoNotShortCircuit(t *testing.T) {
	rec := cleanRecord()
	rec.Fair, rec.Market = "3.0", "-2.0" // edge and kelly both now wrong
	rec.Pick = "Los Angeles Lakers"

	issues := Record(&rec, model())
	fields := map[string]bool{}
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	assert.True(t, fields["Edge"])
	assert.True(t, fields["Pick"])
}

func TestSummary(t *testing.T) {
	cfg := model()
	clean := cleanRecord()
	dirty := cleanRecord()
	dirty.ID = "BET-2"
	dirty.Edge = "9.99"

	var s Summary
	s.Add("bet_tracker_2026-01-15.csv", []tracker.BetRecord{clean, dirty}, cfg)

	assert.Equal(t, 2, s.Bets)
	assert.Equal(t, 1, s.Errors)
	require.Len(t, s.Files, 1)
	assert.Equal(t, 1, s.Files[0].Clean)
	assert.Contains(t, s.Verdict(), "FAIL")

	var pass Summary
	pass.Add("bet_tracker_2026-01-16.csv", []tracker.BetRecord{clean}, cfg)
	assert.Contains(t, pass.Verdict(), "PASS")
}

func TestKellyValuesAgreeWithEngine(t *testing.T) {
	// The validator and the engine must share one Kelly formula.
	rec := cleanRecord()
	k := engine.Kelly(5.75, model().Kelly)
	assert.Equal(t, 4.55, k)
	assert.Empty(t, Record(&rec, model()))
}
