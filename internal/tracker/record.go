// Package tracker reads and writes the bet tracker: daily CSV files in the
// layouts the tracker has used over time, plus an optional postgres mirror.
// Recorded numeric fields are kept as the strings actually written so the
// validator can flag corrupt values instead of losing them at parse time.
package tracker

import (
	"strconv"
	"strings"
)

// Bet results.
const (
	ResultWin     = "WIN"
	ResultLoss    = "LOSS"
	ResultPush    = "PUSH"
	ResultPending = "PENDING"
)

// BetRecord is one tracked bet. Numeric model outputs (Fair, Market, Edge,
// RawEdge, Kelly) are the recorded strings; use the Value accessors to parse.
type BetRecord struct {
	ID         string
	Timestamp  string
	Away       string
	Home       string
	Fair       string
	Market     string
	Edge       string
	RawEdge    string
	EdgeCapped string
	Kelly      string
	Confidence string
	Pick       string
	BetType    string
	Book       string
	Odds       string
	Bet        string
	ToWin      string
	Result     string
	Payout     string
	Notes      string

	// Date is derived from the tracker filename, not a CSV column.
	Date string
}

func parseField(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

// FairValue parses the recorded fair line.
func (r *BetRecord) FairValue() (float64, bool) { return parseField(r.Fair) }

// MarketValue parses the recorded market line.
func (r *BetRecord) MarketValue() (float64, bool) { return parseField(r.Market) }

// EdgeValue parses the recorded (capped) edge.
func (r *BetRecord) EdgeValue() (float64, bool) { return parseField(r.Edge) }

// RawEdgeValue parses the recorded pre-cap edge.
func (r *BetRecord) RawEdgeValue() (float64, bool) { return parseField(r.RawEdge) }

// KellyValue parses the recorded Kelly percent, tolerating a trailing "%".
func (r *BetRecord) KellyValue() (float64, bool) {
	return parseField(strings.TrimSuffix(strings.TrimSpace(r.Kelly), "%"))
}

// CappedFlag parses the Edge_Capped column. The second return is false when
// the column is absent or unrecognized.
func (r *BetRecord) CappedFlag() (capped, known bool) {
	switch strings.ToLower(strings.TrimSpace(r.EdgeCapped)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0", "":
		return false, r.EdgeCapped != ""
	default:
		return false, false
	}
}

// Completed reports whether the bet has settled.
func (r *BetRecord) Completed() bool {
	switch strings.ToUpper(strings.TrimSpace(r.Result)) {
	case ResultWin, ResultLoss, ResultPush:
		return true
	default:
		return false
	}
}

// Won reports a settled win.
func (r *BetRecord) Won() bool {
	return strings.ToUpper(strings.TrimSpace(r.Result)) == ResultWin
}

// Lost reports a settled loss.
func (r *BetRecord) Lost() bool {
	return strings.ToUpper(strings.TrimSpace(r.Result)) == ResultLoss
}
