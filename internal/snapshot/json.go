package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// timestampLayouts covers the formats the acquisition jobs have written over
// time: RFC3339, ISO without zone, and space-separated.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

type ratingsFile struct {
	Timestamp string        `json:"timestamp"`
	Data      []TeamRatings `json:"data"`
}

// LoadRatings reads the ratings cache. The team map is keyed by the cache's
// own team_name values, which are already the canonical stats-feed names.
func LoadRatings(path string) (*Ratings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings cache %s: %w", path, err)
	}
	return ParseRatings(raw)
}

// ParseRatings parses the ratings cache body. The warm cache serves the same
// bytes the file holds, so both paths share this.
func ParseRatings(raw []byte) (*Ratings, error) {
	var file ratingsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ratings cache: %w", err)
	}
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("ratings cache has no teams")
	}

	ts, err := parseTimestamp(file.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("ratings cache: %w", err)
	}

	teams := make(map[string]TeamRatings, len(file.Data))
	for _, t := range file.Data {
		teams[t.TeamName] = t
	}

	log.Debug().Int("teams", len(teams)).Time("cached_at", ts).Msg("loaded ratings cache")
	return &Ratings{Timestamp: ts, Teams: teams}, nil
}

type starTaxRaw struct {
	Timestamp string                 `json:"timestamp"`
	Teams     map[string]StarTaxTeam `json:"teams"`
}

// LoadStarTax reads the star on/off cache. Teams with an upstream fetch error
// are kept with Err set so the engine can flag them unavailable rather than
// silently scoring zero.
func LoadStarTax(path string) (*StarTax, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read star tax cache %s: %w", path, err)
	}
	return ParseStarTax(raw)
}

// ParseStarTax parses the star-tax cache body.
func ParseStarTax(raw []byte) (*StarTax, error) {
	var file starTaxRaw
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse star tax cache: %w", err)
	}

	ts, err := parseTimestamp(file.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("star tax cache: %w", err)
	}

	errored := 0
	for _, t := range file.Teams {
		if t.Err != "" {
			errored++
		}
	}
	log.Debug().Int("teams", len(file.Teams)).Int("errored", errored).
		Time("cached_at", ts).Msg("loaded star tax cache")

	return &StarTax{Timestamp: ts, Teams: file.Teams}, nil
}

// Team returns the star-tax entry for a canonical team name. The cache is
// keyed by team ID, so lookup scans by name.
func (s *StarTax) Team(name string) (StarTaxTeam, bool) {
	for _, t := range s.Teams {
		if t.TeamName == name {
			return t, true
		}
	}
	return StarTaxTeam{}, false
}

type newsFile struct {
	Timestamp string     `json:"timestamp"`
	Data      []NewsItem `json:"data"`
}

// LoadNews reads the headline cache.
func LoadNews(path string) (*News, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read news cache %s: %w", path, err)
	}
	return ParseNews(raw)
}

// ParseNews parses the news cache body.
func ParseNews(raw []byte) (*News, error) {
	var file newsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse news cache: %w", err)
	}

	ts, err := parseTimestamp(file.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("news cache: %w", err)
	}

	log.Debug().Int("items", len(file.Data)).Time("cached_at", ts).Msg("loaded news cache")
	return &News{Timestamp: ts, Items: file.Data}, nil
}

// LoadOdds reads the consensus-line cache.
func LoadOdds(path string) (*Odds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read odds cache %s: %w", path, err)
	}

	var odds Odds
	if err := json.Unmarshal(raw, &odds); err != nil {
		return nil, fmt.Errorf("failed to parse odds cache: %w", err)
	}
	return &odds, nil
}

// MarketLine finds the consensus line for a matchup by nickname containment:
// a cached "Away @ Home" key matches when both sides' names appear on the
// right sides of the separator. Returns false when no key matches.
func (o *Odds) MarketLine(away, home string) (float64, bool) {
	if o == nil {
		return 0, false
	}
	awayLower := strings.ToLower(away)
	homeLower := strings.ToLower(home)
	for key, entry := range o.Games {
		parts := strings.SplitN(key, "@", 2)
		if len(parts) != 2 {
			continue
		}
		keyAway := strings.ToLower(strings.TrimSpace(parts[0]))
		keyHome := strings.ToLower(strings.TrimSpace(parts[1]))
		if sidesMatch(keyAway, awayLower) && sidesMatch(keyHome, homeLower) {
			return entry.ConsensusLine, true
		}
	}
	return 0, false
}

func sidesMatch(cached, requested string) bool {
	return strings.Contains(cached, requested) || strings.Contains(requested, cached)
}
