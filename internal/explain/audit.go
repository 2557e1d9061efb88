package explain

import (
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/snapshot"
	"github.com/sawpanic/courtline/internal/tracker"
)

// Audit thresholds: a bet the superseded model liked (old edge at or above
// AuditOldEdgeFloor) that the current model would not take (new edge below
// AuditNewEdgeCeiling) counts as a would-skip.
const (
	AuditNewEdgeCeiling = 3.0
	AuditOldEdgeFloor   = 5.0
)

// BetAudit is one recorded bet replayed under the current model. The caches
// are today's, not the bet date's, so this measures how the MODEL CHANGE
// moves edges on real matchups, never what the bet "should have been".
type BetAudit struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Away         string  `json:"away"`
	Home         string  `json:"home"`
	Result       string  `json:"result"`
	RecordedEdge float64 `json:"recorded_edge"`
	NewEdge      float64 `json:"new_edge"`
	OldEdge      float64 `json:"old_edge"`
	WouldSkip    bool    `json:"would_skip"`
}

// AuditReport aggregates a replay over the tracker history.
type AuditReport struct {
	Bets        []BetAudit `json:"bets"`
	Replayed    int        `json:"replayed"`
	Skipped     int        `json:"skipped"`
	AvgNewEdge  float64    `json:"avg_new_edge"`
	AvgOldEdge  float64    `json:"avg_old_edge"`
	Compression float64    `json:"compression"`
	WouldSkip   int        `json:"would_skip"`
}

// Audit replays every completed bet with a parseable market line through the
// current model and the superseded one. Bets whose teams cannot be resolved
// against today's ratings are counted skipped, not fatal.
func Audit(records []tracker.BetRecord, snaps *snapshot.Snapshots, cfg config.ModelConfig) *AuditReport {
	report := &AuditReport{}
	var sumNew, sumOld float64

	for i := range records {
		rec := &records[i]
		if !rec.Completed() {
			report.Skipped++
			continue
		}
		market, ok := rec.MarketValue()
		if !ok {
			report.Skipped++
			continue
		}

		d, err := Decompose(rec.Away, rec.Home, &market, snaps, cfg)
		if err != nil {
			log.Warn().Err(err).Str("id", rec.ID).Msg("bet not replayable, skipping")
			report.Skipped++
			continue
		}

		recorded, _ := rec.EdgeValue()
		audit := BetAudit{
			ID:           rec.ID,
			Date:         rec.Date,
			Away:         d.AwayTeam,
			Home:         d.HomeTeam,
			Result:       rec.Result,
			RecordedEdge: recorded,
			NewEdge:      *d.NewEdge,
			OldEdge:      *d.OldEdge,
			WouldSkip:    *d.NewEdge < AuditNewEdgeCeiling && *d.OldEdge >= AuditOldEdgeFloor,
		}
		if audit.WouldSkip {
			report.WouldSkip++
		}

		report.Bets = append(report.Bets, audit)
		report.Replayed++
		sumNew += audit.NewEdge
		sumOld += audit.OldEdge
	}

	if report.Replayed > 0 {
		n := float64(report.Replayed)
		report.AvgNewEdge = sumNew / n
		report.AvgOldEdge = sumOld / n
		report.Compression = report.AvgOldEdge - report.AvgNewEdge
	}
	return report
}

// FactorContribution is one factor's average points across result buckets.
type FactorContribution struct {
	Factor string  `json:"factor"`
	All    float64 `json:"all"`
	Wins   float64 `json:"wins"`
	Losses float64 `json:"losses"`
}

// ContributionReport averages each factor's contribution over the replayed
// history, split by result, to show which factors carry winning bets.
func ContributionReport(records []tracker.BetRecord, snaps *snapshot.Snapshots, cfg config.ModelConfig) []FactorContribution {
	type bucket struct {
		sum   float64
		count int
	}
	factors := []string{"matchup", "home court", "rest", "home star tax", "away star tax", "news"}
	all := map[string]*bucket{}
	wins := map[string]*bucket{}
	losses := map[string]*bucket{}
	for _, f := range factors {
		all[f] = &bucket{}
		wins[f] = &bucket{}
		losses[f] = &bucket{}
	}

	addTo := func(m map[string]*bucket, d *Decomposition) {
		m["matchup"].sum += d.MatchupComponent
		m["home court"].sum += d.HomeCourt
		m["rest"].sum += d.RestAdjustment
		m["home star tax"].sum += -d.HomeStarTax.Points
		m["away star tax"].sum += d.AwayStarTax.Points
		m["news"].sum += d.NewsFactor
		for _, f := range factors {
			m[f].count++
		}
	}

	for i := range records {
		rec := &records[i]
		if !rec.Completed() {
			continue
		}
		d, err := Decompose(rec.Away, rec.Home, nil, snaps, cfg)
		if err != nil {
			continue
		}
		addTo(all, d)
		if rec.Won() {
			addTo(wins, d)
		} else if rec.Lost() {
			addTo(losses, d)
		}
	}

	avg := func(b *bucket) float64 {
		if b.count == 0 {
			return 0
		}
		return b.sum / float64(b.count)
	}

	out := make([]FactorContribution, 0, len(factors))
	for _, f := range factors {
		out = append(out, FactorContribution{
			Factor: f,
			All:    avg(all[f]),
			Wins:   avg(wins[f]),
			Losses: avg(losses[f]),
		})
	}
	return out
}
