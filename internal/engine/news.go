package engine

import (
	"fmt"
	"strings"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/snapshot"
)

// newsKeywords builds the matchup gate for the news scan: both resolved full
// names, both names as requested, and the final word of each full name (the
// nickname), all lowercased.
func newsKeywords(awayResolved, homeResolved, awayInput, homeInput string) []string {
	seen := map[string]bool{}
	var keywords []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		keywords = append(keywords, s)
	}

	for _, name := range []string{awayResolved, homeResolved, awayInput, homeInput} {
		add(name)
		words := strings.Fields(name)
		if len(words) > 1 {
			add(words[len(words)-1])
		}
	}
	return keywords
}

// NewsFactor scans cached headlines for point-moving phrases, gated on the
// matchup keywords so news about other teams contributes exactly zero. Each
// matching item adds the late-scratch points when it mentions a late scratch
// and the coach-fired points when it mentions a firing; descriptions of every
// hit come back for the decomposition report.
func NewsFactor(news *snapshot.News, keywords []string, cfg config.ModelConfig) (float64, []string) {
	if news == nil {
		return 0, nil
	}

	var factor float64
	var hits []string
	for _, item := range news.Items {
		text := strings.ToLower(item.Title + " " + item.Summary)
		if !mentionsAny(text, keywords) {
			continue
		}
		if strings.Contains(text, "late scratch") {
			factor += cfg.LateScratchPoints
			hits = append(hits, fmt.Sprintf("late scratch (%+.0f): %s", cfg.LateScratchPoints, item.Title))
		}
		if strings.Contains(text, "coach fired") {
			factor += cfg.CoachFiredPoints
			hits = append(hits, fmt.Sprintf("coach fired (%+.0f): %s", cfg.CoachFiredPoints, item.Title))
		}
	}
	return factor, hits
}

func mentionsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
