package explain

import (
	"fmt"

	"github.com/sawpanic/courtline/internal/tracker"
)

// Breakeven is the win rate needed at -110 pricing.
const Breakeven = 0.524

// MinHealthSample is the history size below which win-rate checks are noise.
const MinHealthSample = 30

// edgeTiers bucket recorded edges for calibration: a healthy model wins more
// often as the recorded edge grows.
var edgeTiers = []struct{ Lo, Hi float64 }{
	{0, 3}, {3, 5}, {5, 8}, {8, 10}, {10, 15}, {15, 20}, {20, 1e9},
}

// TierStat is one edge tier's record.
type TierStat struct {
	Lo      float64 `json:"lo"`
	Hi      float64 `json:"hi"`
	Bets    int     `json:"bets"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// HealthReport summarizes whether the model is performing on the recorded
// history.
type HealthReport struct {
	Sample   int        `json:"sample"`
	Wins     int        `json:"wins"`
	Losses   int        `json:"losses"`
	Pushes   int        `json:"pushes"`
	WinRate  float64    `json:"win_rate"`
	Tiers    []TierStat `json:"tiers"`
	HighEdge TierStat   `json:"high_edge"`
	Findings []string   `json:"findings"`
}

// ModelHealth checks the recorded history: sample size, overall win rate
// against breakeven, edge-tier calibration, and high-edge performance.
func ModelHealth(records []tracker.BetRecord) *HealthReport {
	report := &HealthReport{
		Tiers:    make([]TierStat, len(edgeTiers)),
		HighEdge: TierStat{Lo: 8, Hi: 1e9},
	}
	for i, tier := range edgeTiers {
		report.Tiers[i] = TierStat{Lo: tier.Lo, Hi: tier.Hi}
	}

	for i := range records {
		rec := &records[i]
		if !rec.Completed() {
			continue
		}
		report.Sample++
		won := rec.Won()
		switch {
		case won:
			report.Wins++
		case rec.Lost():
			report.Losses++
		default:
			report.Pushes++
		}

		edge, ok := rec.EdgeValue()
		if !ok {
			continue
		}
		for t := range report.Tiers {
			if edge >= report.Tiers[t].Lo && edge < report.Tiers[t].Hi {
				report.Tiers[t].Bets++
				if won {
					report.Tiers[t].Wins++
				}
				break
			}
		}
		if edge >= report.HighEdge.Lo {
			report.HighEdge.Bets++
			if won {
				report.HighEdge.Wins++
			}
		}
	}

	decided := report.Wins + report.Losses
	if decided > 0 {
		report.WinRate = float64(report.Wins) / float64(decided)
	}
	for t := range report.Tiers {
		if report.Tiers[t].Bets > 0 {
			report.Tiers[t].WinRate = float64(report.Tiers[t].Wins) / float64(report.Tiers[t].Bets)
		}
	}
	if report.HighEdge.Bets > 0 {
		report.HighEdge.WinRate = float64(report.HighEdge.Wins) / float64(report.HighEdge.Bets)
	}

	report.Findings = findings(report)
	return report
}

func findings(r *HealthReport) []string {
	var out []string

	if r.Sample < MinHealthSample {
		out = append(out, fmt.Sprintf("sample of %d settled bets is below %d, win-rate checks are noise", r.Sample, MinHealthSample))
		return out
	}
	if r.WinRate < Breakeven {
		out = append(out, fmt.Sprintf("win rate %.1f%% is below the %.1f%% breakeven", r.WinRate*100, Breakeven*100))
	} else {
		out = append(out, fmt.Sprintf("win rate %.1f%% clears the %.1f%% breakeven", r.WinRate*100, Breakeven*100))
	}

	// Calibration: each populated tier should win at least as often as the
	// one below it.
	prev := -1.0
	monotonic := true
	for _, tier := range r.Tiers {
		if tier.Bets < 5 {
			continue
		}
		if tier.WinRate < prev {
			monotonic = false
			break
		}
		prev = tier.WinRate
	}
	if !monotonic {
		out = append(out, "edge tiers are not monotonic: bigger recorded edges are not winning more often")
	}

	if r.HighEdge.Bets >= 5 && r.HighEdge.WinRate < Breakeven {
		out = append(out, fmt.Sprintf("high-edge bets (>=%.0f) winning only %.1f%%", r.HighEdge.Lo, r.HighEdge.WinRate*100))
	}
	return out
}
