// Package snapshot loads the cache files the data-acquisition pipeline writes
// and hands the engine a point-in-time view of them. The engine never fetches
// anything itself; stale or missing caches surface through Staleness, not
// through silent refetches.
package snapshot

import "time"

// Cache file names under the data directory. The acquisition jobs own these
// names; the engine only reads them.
const (
	RatingsFile  = "nba_stats_cache.json"
	StarTaxFile  = "star_tax_cache.json"
	RestFile     = "rest_penalty_cache.csv"
	InjuriesFile = "injury_cache.csv"
	NewsFile     = "nba_news_cache.json"
	OddsFile     = "odds_cache.json"
)

// TeamRatings is one team's row from the ratings cache.
type TeamRatings struct {
	TeamName  string  `json:"team_name"`
	OffRating float64 `json:"off_rating"`
	DefRating float64 `json:"def_rating"`
	NetRating float64 `json:"net_rating"`
	Pace      float64 `json:"pace"`
}

// Ratings is the parsed ratings cache.
type Ratings struct {
	Timestamp time.Time
	Teams     map[string]TeamRatings // keyed by canonical full name
}

// InjuryRow is one entry from the injury report cache.
type InjuryRow struct {
	Team     string
	Player   string
	Position string
	Date     string
	Injury   string
	Status   string
}

// Injuries is the parsed injury cache, grouped by canonical team name.
type Injuries struct {
	Timestamp time.Time
	ByTeam    map[string][]InjuryRow
}

// Rest is the parsed rest-penalty cache. Teams absent from Penalties carry no
// penalty.
type Rest struct {
	Timestamp time.Time
	Penalties map[string]float64
	LastGame  map[string]string
}

// StarTaxTeam is one team's star on/off data. Err marks teams whose fetch
// failed upstream; their players map must not be trusted.
type StarTaxTeam struct {
	TeamName string             `json:"team_name"`
	Players  map[string]float64 `json:"players"`
	Err      string             `json:"error,omitempty"`
}

// StarTax is the parsed star-tax cache keyed by team ID.
type StarTax struct {
	Timestamp time.Time
	Teams     map[string]StarTaxTeam
}

// NewsItem is one headline from the news cache.
type NewsItem struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
}

// News is the parsed news cache.
type News struct {
	Timestamp time.Time
	Items     []NewsItem
}

// OddsEntry is one matchup's consensus line.
type OddsEntry struct {
	ConsensusLine float64 `json:"consensus_line"`
	FetchedAt     string  `json:"fetched_at"`
}

// Odds is the parsed odds cache keyed by "Away @ Home" matchup strings.
type Odds struct {
	Games map[string]OddsEntry `json:"games"`
}

// Snapshots bundles every cache the engine consumes for one computation. Any
// member may be nil when its file is missing; the engine decides per factor
// whether that is fatal (ratings) or degrades gracefully (star tax, news).
type Snapshots struct {
	Ratings  *Ratings
	Injuries *Injuries
	Rest     *Rest
	StarTax  *StarTax
	News     *News
	Odds     *Odds
}

// MarketFor looks a matchup's consensus line up in the odds cache, false when
// the cache is absent or has no matching game.
func (s *Snapshots) MarketFor(away, home string) (float64, bool) {
	return s.Odds.MarketLine(away, home)
}
