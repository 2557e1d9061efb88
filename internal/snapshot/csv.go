package snapshot

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// readCommentedCSV reads a cache CSV whose first line may be a
// "# timestamp: ..." comment, returning the records and the parsed timestamp.
// A missing comment yields a zero timestamp, not an error.
func readCommentedCSV(path string) ([][]string, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	br := bufio.NewReader(f)

	var ts time.Time
	peek, err := br.Peek(1)
	if err == nil && peek[0] == '#' {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			return nil, time.Time{}, err
		}
		raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(line), "#"), " "))
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "timestamp:"))
		if parsed, perr := parseTimestamp(raw); perr == nil {
			ts = parsed
		}
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, time.Time{}, err
	}
	return records, ts, nil
}

// LoadRest reads the rest-penalty cache. Rows with an unparseable penalty are
// logged and treated as zero; a team absent from the file simply has no
// penalty.
func LoadRest(path string) (*Rest, error) {
	records, ts, err := readCommentedCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rest cache %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("rest cache %s is empty", path)
	}

	header := records[0]
	idx := headerIndex(header)
	teamCol, okTeam := idx["TEAM_NAME"]
	penaltyCol, okPenalty := idx["REST_PENALTY"]
	lastCol, okLast := idx["LAST_GAME_DATE"]
	if !okTeam || !okPenalty {
		return nil, fmt.Errorf("rest cache %s missing TEAM_NAME/REST_PENALTY columns", path)
	}

	rest := &Rest{
		Timestamp: ts,
		Penalties: map[string]float64{},
		LastGame:  map[string]string{},
	}
	for _, row := range records[1:] {
		if teamCol >= len(row) || penaltyCol >= len(row) {
			continue
		}
		team := strings.TrimSpace(row[teamCol])
		if team == "" {
			continue
		}
		penalty, err := strconv.ParseFloat(strings.TrimSpace(row[penaltyCol]), 64)
		if err != nil {
			log.Warn().Str("team", team).Str("value", row[penaltyCol]).
				Msg("unparseable rest penalty, treating as 0")
			penalty = 0
		}
		rest.Penalties[team] = penalty
		if okLast && lastCol < len(row) {
			rest.LastGame[team] = strings.TrimSpace(row[lastCol])
		}
	}
	return rest, nil
}

// Penalty returns a team's rest penalty, zero when absent.
func (r *Rest) Penalty(team string) float64 {
	if r == nil {
		return 0
	}
	return r.Penalties[team]
}

// LoadInjuries reads the injury report cache grouped by team.
func LoadInjuries(path string) (*Injuries, error) {
	records, ts, err := readCommentedCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read injury cache %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("injury cache %s is empty", path)
	}

	idx := headerIndex(records[0])
	col := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	inj := &Injuries{Timestamp: ts, ByTeam: map[string][]InjuryRow{}}
	for _, row := range records[1:] {
		team := col(row, "TEAM")
		if team == "" {
			continue
		}
		inj.ByTeam[team] = append(inj.ByTeam[team], InjuryRow{
			Team:     team,
			Player:   col(row, "PLAYER"),
			Position: col(row, "POSITION"),
			Date:     col(row, "DATE"),
			Injury:   col(row, "INJURY"),
			Status:   col(row, "STATUS"),
		})
	}
	return inj, nil
}

// Team returns a team's injury rows, nil when the team has none listed.
func (i *Injuries) Team(name string) []InjuryRow {
	if i == nil {
		return nil
	}
	return i.ByTeam[name]
}

// headerIndex maps uppercased header names to their column positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return idx
}
