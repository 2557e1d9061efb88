package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/engine"
	"github.com/sawpanic/courtline/internal/tracker"
)

// Tolerances for recomputed values against recorded ones. Edges are quoted to
// cents; Kelly percents historically round more loosely.
const (
	EdgeTolerance  = 0.05
	KellyTolerance = 0.1
)

// Record runs every consistency check against one bet and returns all
// findings. Checks are independent: one failure never hides another.
func Record(rec *tracker.BetRecord, cfg config.ModelConfig) []Issue {
	var issues []Issue
	issues = append(issues, checkNumericFields(rec)...)
	issues = append(issues, checkEdge(rec, cfg)...)
	issues = append(issues, checkCappedFlag(rec, cfg)...)
	issues = append(issues, checkKelly(rec, cfg)...)
	issues = append(issues, checkPick(rec)...)
	return issues
}

// checkNumericFields flags recorded values that should be numbers but are
// not. Empty fields pass: older layouts simply lack them.
func checkNumericFields(rec *tracker.BetRecord) []Issue {
	var issues []Issue
	fields := []struct {
		name  string
		value string
		parse func() (float64, bool)
	}{
		{"Fair", rec.Fair, rec.FairValue},
		{"Market", rec.Market, rec.MarketValue},
		{"Edge", rec.Edge, rec.EdgeValue},
		{"Raw_Edge", rec.RawEdge, rec.RawEdgeValue},
		{"Kelly", rec.Kelly, rec.KellyValue},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, ok := f.parse(); !ok {
			issues = append(issues, errorf(rec.ID, f.name, "recorded value %q is not numeric", f.value))
		}
	}
	return issues
}

// expectedEdges recomputes the raw and capped edge from the recorded lines.
func expectedEdges(fair, market float64, cfg config.ModelConfig) (raw, capped float64) {
	raw = engine.Round2(math.Abs(fair - market))
	capped = math.Min(raw, cfg.EdgeCap)
	return raw, capped
}

// checkEdge verifies the recorded edge columns against |fair - market|. The
// cap in force at record time may differ from today's, so a recorded edge
// matching the raw edge is as valid as one matching the currently-capped
// value; only an edge matching neither is an error.
func checkEdge(rec *tracker.BetRecord, cfg config.ModelConfig) []Issue {
	fair, okF := rec.FairValue()
	market, okM := rec.MarketValue()
	if !okF || !okM {
		return nil
	}

	raw, capped := expectedEdges(fair, market, cfg)
	var issues []Issue

	if edge, ok := rec.EdgeValue(); ok {
		if math.Abs(edge-capped) > EdgeTolerance && math.Abs(edge-raw) > EdgeTolerance {
			issues = append(issues, errorf(rec.ID, "Edge",
				"recorded edge %.2f disagrees with |fair %.2f - market %.2f| = %.2f (cap %.0f)",
				edge, fair, market, raw, cfg.EdgeCap))
		}
	}
	if rawRec, ok := rec.RawEdgeValue(); ok {
		if math.Abs(rawRec-raw) > EdgeTolerance {
			issues = append(issues, errorf(rec.ID, "Raw_Edge",
				"recorded raw edge %.2f disagrees with |fair %.2f - market %.2f| = %.2f",
				rawRec, fair, market, raw))
		}
	}
	return issues
}

// checkCappedFlag verifies the Edge_Capped column against the recomputed raw
// edge.
func checkCappedFlag(rec *tracker.BetRecord, cfg config.ModelConfig) []Issue {
	flag, known := rec.CappedFlag()
	if !known {
		return nil
	}
	fair, okF := rec.FairValue()
	market, okM := rec.MarketValue()
	if !okF || !okM {
		return nil
	}

	raw, _ := expectedEdges(fair, market, cfg)
	shouldCap := raw > cfg.EdgeCap
	if flag != shouldCap {
		return []Issue{warnf(rec.ID, "Edge_Capped",
			"flag says capped=%v but raw edge %.2f vs cap %.0f says %v",
			flag, raw, cfg.EdgeCap, shouldCap)}
	}
	return nil
}

// checkKelly recomputes the stake from the edge the sizing actually saw: the
// recorded Edge when present (it carries the cap in force at record time),
// otherwise the edge recomputed under today's cap. A capped fair line is
// synthesized on the recorded side of the market before recomputing.
func checkKelly(rec *tracker.BetRecord, cfg config.ModelConfig) []Issue {
	kelly, ok := rec.KellyValue()
	if !ok {
		return nil
	}
	fair, okF := rec.FairValue()
	market, okM := rec.MarketValue()
	if !okF || !okM {
		return nil
	}

	_, effective := expectedEdges(fair, market, cfg)
	if recorded, ok := rec.EdgeValue(); ok {
		effective = recorded
	}
	cappedFair := market - effective
	if fair > market {
		cappedFair = market + effective
	}
	expected := engine.Kelly(engine.Round2(math.Abs(cappedFair-market)), cfg.Kelly)

	if math.Abs(kelly-expected) > KellyTolerance {
		return []Issue{warnf(rec.ID, "Kelly",
			"recorded kelly %.2f%% disagrees with recomputed %.2f%% (effective edge %.2f)",
			kelly, expected, effective)}
	}
	return nil
}

// checkPick verifies the pick names a side of this game and, when the lines
// parse, that it sits on the side the model backs. A side mismatch is INFO
// only: a human may have knowingly overridden the model.
func checkPick(rec *tracker.BetRecord) []Issue {
	pick := strings.TrimSpace(rec.Pick)
	if pick == "" {
		return nil
	}

	lower := strings.ToLower(pick)
	isHome := lower == "home" || strings.EqualFold(pick, rec.Home)
	isAway := lower == "away" || strings.EqualFold(pick, rec.Away)
	if !isHome && !isAway {
		return []Issue{errorf(rec.ID, "Pick",
			"pick %q is neither side of %s @ %s", pick, rec.Away, rec.Home)}
	}

	fair, okF := rec.FairValue()
	market, okM := rec.MarketValue()
	if !okF || !okM {
		return nil
	}

	expected := engine.PickSide(fair, market)
	actual := "away"
	if isHome {
		actual = "home"
	}
	if actual != expected {
		return []Issue{infof(rec.ID, "Pick",
			"pick %s but fair %.2f vs market %.2f backs %s; possible manual override",
			actual, fair, market, expected)}
	}
	return nil
}

// FileReport tallies one tracker file's audit.
type FileReport struct {
	File   string  `json:"file"`
	Bets   int     `json:"bets"`
	Clean  int     `json:"clean"`
	Issues []Issue `json:"issues,omitempty"`
}

// Summary is the audit over a set of tracker files.
type Summary struct {
	Files    []FileReport `json:"files"`
	Bets     int          `json:"bets"`
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
	Infos    int          `json:"infos"`
}

// Add folds one file's records into the summary.
func (s *Summary) Add(file string, records []tracker.BetRecord, cfg config.ModelConfig) {
	report := FileReport{File: file, Bets: len(records)}
	for i := range records {
		issues := Record(&records[i], cfg)
		if len(issues) == 0 {
			report.Clean++
			continue
		}
		report.Issues = append(report.Issues, issues...)
		for _, issue := range issues {
			switch issue.Severity {
			case SeverityError:
				s.Errors++
			case SeverityWarn:
				s.Warnings++
			default:
				s.Infos++
			}
		}
	}
	s.Files = append(s.Files, report)
	s.Bets += len(records)
}

// Verdict is the one-line outcome.
func (s *Summary) Verdict() string {
	switch {
	case s.Errors > 0:
		return fmt.Sprintf("FAIL: %d error(s), %d warning(s) across %d bet(s)", s.Errors, s.Warnings, s.Bets)
	case s.Warnings > 0:
		return fmt.Sprintf("PASS with %d warning(s) across %d bet(s)", s.Warnings, s.Bets)
	default:
		return fmt.Sprintf("PASS: %d bet(s) clean", s.Bets)
	}
}
