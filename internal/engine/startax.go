package engine

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtline/internal/snapshot"
)

// StarTax is one side's injury-impact points. Available distinguishes a
// computed zero (healthy roster) from missing on/off data; the two must never
// be conflated downstream.
type StarTax struct {
	Points    float64 `json:"points"`
	Available bool    `json:"available"`
}

// severityWeight maps an injury report status to the fraction of a player's
// on/off impact the model charges.
func severityWeight(status string) (float64, bool) {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "doubtful"):
		return 0.9, true
	case strings.Contains(s, "out"):
		return 1.0, true
	case strings.Contains(s, "questionable"),
		strings.Contains(s, "game"),
		strings.Contains(s, "day"):
		return 0.5, true
	case strings.Contains(s, "probable"):
		return 0.1, true
	default:
		return 0, false
	}
}

// questionableTier reports whether a status carries the 0.5 weight; those
// players feed the confidence grade.
func questionableTier(status string) bool {
	w, ok := severityWeight(status)
	return ok && w == 0.5
}

// computeStarTax weighs a team's listed injuries by severity against the star
// on/off cache: sum of weight x on/off over the roster, halved. Returns the
// tax plus the questionable-tier player names. The questionable list comes
// from the injury report alone, so an on/off cache outage never hides it from
// the confidence grade.
func computeStarTax(team string, snaps *snapshot.Snapshots) (StarTax, []string) {
	var entry snapshot.StarTaxTeam
	available := false
	if snaps.StarTax != nil {
		if e, ok := snaps.StarTax.Team(team); ok && e.Err == "" {
			entry, available = e, true
		}
	}

	var questionable []string
	var sum float64
	for _, row := range snaps.Injuries.Team(team) {
		weight, known := severityWeight(row.Status)
		if !known {
			log.Warn().Str("team", team).Str("player", row.Player).
				Str("status", row.Status).Msg("unknown injury status, weighting 0")
			continue
		}
		if questionableTier(row.Status) {
			questionable = append(questionable, row.Player)
		}
		if !available {
			continue
		}
		if onOff, found := entry.Players[strings.ToLower(row.Player)]; found {
			sum += weight * onOff
		}
	}

	if !available {
		return StarTax{}, questionable
	}
	return StarTax{Points: sum / 2, Available: true}, questionable
}
