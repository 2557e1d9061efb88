// Package nba holds the static league data the engine resolves free-text
// team names against. The table is hardcoded for the 30 current franchises so
// name resolution never needs a network call.
package nba

// Team is one franchise in the canonical table.
type Team struct {
	ID           int64
	FullName     string
	Nickname     string
	Abbreviation string
}

var teams = []Team{
	{1610612737, "Atlanta Hawks", "Hawks", "ATL"},
	{1610612738, "Boston Celtics", "Celtics", "BOS"},
	{1610612739, "Cleveland Cavaliers", "Cavaliers", "CLE"},
	{1610612740, "New Orleans Pelicans", "Pelicans", "NOP"},
	{1610612741, "Chicago Bulls", "Bulls", "CHI"},
	{1610612742, "Dallas Mavericks", "Mavericks", "DAL"},
	{1610612743, "Denver Nuggets", "Nuggets", "DEN"},
	{1610612744, "Golden State Warriors", "Warriors", "GSW"},
	{1610612745, "Houston Rockets", "Rockets", "HOU"},
	{1610612746, "LA Clippers", "Clippers", "LAC"},
	{1610612747, "Los Angeles Lakers", "Lakers", "LAL"},
	{1610612748, "Miami Heat", "Heat", "MIA"},
	{1610612749, "Milwaukee Bucks", "Bucks", "MIL"},
	{1610612750, "Minnesota Timberwolves", "Timberwolves", "MIN"},
	{1610612751, "Brooklyn Nets", "Nets", "BKN"},
	{1610612752, "New York Knicks", "Knicks", "NYK"},
	{1610612753, "Orlando Magic", "Magic", "ORL"},
	{1610612754, "Indiana Pacers", "Pacers", "IND"},
	{1610612755, "Philadelphia 76ers", "76ers", "PHI"},
	{1610612756, "Phoenix Suns", "Suns", "PHX"},
	{1610612757, "Portland Trail Blazers", "Trail Blazers", "POR"},
	{1610612758, "Sacramento Kings", "Kings", "SAC"},
	{1610612759, "San Antonio Spurs", "Spurs", "SAS"},
	{1610612760, "Oklahoma City Thunder", "Thunder", "OKC"},
	{1610612761, "Toronto Raptors", "Raptors", "TOR"},
	{1610612762, "Utah Jazz", "Jazz", "UTA"},
	{1610612763, "Memphis Grizzlies", "Grizzlies", "MEM"},
	{1610612764, "Washington Wizards", "Wizards", "WAS"},
	{1610612765, "Detroit Pistons", "Pistons", "DET"},
	{1610612766, "Charlotte Hornets", "Hornets", "CHA"},
}

// Aliases maps common shorthand and known stat-provider mismatches to the
// canonical full name. The Clippers entry matters: most providers say
// "Los Angeles Clippers" while the stats feed says "LA Clippers".
var Aliases = map[string]string{
	"Los Angeles Clippers":   "LA Clippers",
	"Philly 76ers":           "Philadelphia 76ers",
	"Portland Trailblazers":  "Portland Trail Blazers",
	"Blazers":                "Portland Trail Blazers",
	"Sixers":                 "Philadelphia 76ers",
	"Wolves":                 "Minnesota Timberwolves",
}

var (
	byFullName     = map[string]Team{}
	byNickname     = map[string]Team{}
	byAbbreviation = map[string]Team{}
)

func init() {
	for _, t := range teams {
		byFullName[t.FullName] = t
		byNickname[t.Nickname] = t
		byAbbreviation[t.Abbreviation] = t
	}
}

// Teams returns a copy of the canonical team table.
func Teams() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// FullNames returns the canonical full names in table order.
func FullNames() []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.FullName
	}
	return out
}

// ByFullName looks up a team by its canonical full name.
func ByFullName(name string) (Team, bool) {
	t, ok := byFullName[name]
	return t, ok
}

// ByNickname looks up a team by its nickname ("Celtics", "76ers").
func ByNickname(name string) (Team, bool) {
	t, ok := byNickname[name]
	return t, ok
}

// ByAbbreviation looks up a team by its three-letter code.
func ByAbbreviation(code string) (Team, bool) {
	t, ok := byAbbreviation[code]
	return t, ok
}
