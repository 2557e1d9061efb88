package explain

import (
	"fmt"
	"strings"
)

// Waterfall renders the factor breakdown as a text table: each factor's point
// contribution in computation order, the fair line, and the superseded-model
// counterfactual underneath.
func Waterfall(d *Decomposition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s @ %s\n", d.AwayTeam, d.HomeTeam)
	b.WriteString(strings.Repeat("-", 46) + "\n")

	row := func(label string, value float64) {
		fmt.Fprintf(&b, "  %-28s %+8.2f\n", label, value)
	}

	row("matchup (regressed, paced)", d.MatchupComponent)
	row("home court", d.HomeCourt)
	row("rest", d.RestAdjustment)
	row("home star tax", -d.HomeStarTax.Points)
	row("away star tax", d.AwayStarTax.Points)
	row("news", d.NewsFactor)
	b.WriteString(strings.Repeat("-", 46) + "\n")
	fmt.Fprintf(&b, "  %-28s %+8.2f\n", "fair line", d.Value)

	if d.StarTaxUnavailable() {
		b.WriteString("  (star on/off data unavailable for at least one side)\n")
	}
	for _, hit := range d.NewsHits {
		fmt.Fprintf(&b, "  news: %s\n", hit)
	}

	b.WriteString("\nsuperseded model (raw ratings, scaled home court)\n")
	row("pre-regression matchup", d.PreRegressionDiff*d.PaceMultiplier)
	row("regression impact", d.RegressionImpact)
	row("scaled home court", d.SupersededHomeCourt)
	fmt.Fprintf(&b, "  %-28s %+8.2f\n", "superseded fair line", d.SupersededFairLine)

	if d.MarketLine != nil {
		fmt.Fprintf(&b, "\n  %-28s %+8.2f\n", "market line", *d.MarketLine)
		fmt.Fprintf(&b, "  %-28s %8.2f\n", "edge (current model)", *d.NewEdge)
		fmt.Fprintf(&b, "  %-28s %8.2f\n", "edge (superseded model)", *d.OldEdge)
	}

	return b.String()
}
