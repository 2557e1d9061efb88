package tracker

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// trackerHeader is the current 20-column layout. Older files carry 18
// columns (no Raw_Edge/Edge_Capped) or 14 (no Confidence/Type/Book/Odds);
// reading maps by header name so every layout loads.
var trackerHeader = []string{
	"ID", "Timestamp", "Away", "Home", "Fair", "Market", "Edge", "Raw_Edge",
	"Edge_Capped", "Kelly", "Confidence", "Pick", "Type", "Book", "Odds",
	"Bet", "To_Win", "Result", "Payout", "Notes",
}

const filePrefix = "bet_tracker_"

// FileName returns the tracker file name for a date.
func FileName(date time.Time) string {
	return fmt.Sprintf("%s%s.csv", filePrefix, date.Format("2006-01-02"))
}

// fileDate extracts the YYYY-MM-DD portion of a tracker filename.
func fileDate(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".csv")
	return strings.TrimPrefix(base, filePrefix)
}

// ReadFile loads one tracker CSV, mapping columns by header so the 20-, 18-
// and 14-column layouts all parse. The record Date comes from the filename.
func ReadFile(path string) ([]BetRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracker %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracker %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := map[string]int{}
	for i, name := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	col := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date := fileDate(path)
	records := make([]BetRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		records = append(records, BetRecord{
			ID:         col(row, "id"),
			Timestamp:  col(row, "timestamp"),
			Away:       col(row, "away"),
			Home:       col(row, "home"),
			Fair:       col(row, "fair"),
			Market:     col(row, "market"),
			Edge:       col(row, "edge"),
			RawEdge:    col(row, "raw_edge"),
			EdgeCapped: col(row, "edge_capped"),
			Kelly:      col(row, "kelly"),
			Confidence: col(row, "confidence"),
			Pick:       col(row, "pick"),
			BetType:    col(row, "type"),
			Book:       col(row, "book"),
			Odds:       col(row, "odds"),
			Bet:        col(row, "bet"),
			ToWin:      col(row, "to_win"),
			Result:     col(row, "result"),
			Payout:     col(row, "payout"),
			Notes:      col(row, "notes"),
			Date:       date,
		})
	}

	log.Debug().Str("file", filepath.Base(path)).Int("columns", len(rows[0])).
		Int("records", len(records)).Msg("loaded tracker file")
	return records, nil
}

// ReadDir loads every tracker file under a directory in date order.
func ReadDir(dir string) ([]BetRecord, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var all []BetRecord
	for _, path := range matches {
		records, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// Files lists the tracker file paths under a directory in date order.
func Files(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// NewID builds a tracker id: BET-<date>-<short uuid>.
func NewID(now time.Time) string {
	return fmt.Sprintf("BET-%s-%s", now.Format("20060102"), uuid.NewString()[:8])
}

// Append writes a record to the given day's tracker file in the current
// layout, creating the file with a header when absent.
func Append(dir string, date time.Time, rec BetRecord) error {
	path := filepath.Join(dir, FileName(date))

	_, statErr := os.Stat(path)
	needHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open tracker %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(trackerHeader); err != nil {
			return err
		}
	}
	row := []string{
		rec.ID, rec.Timestamp, rec.Away, rec.Home, rec.Fair, rec.Market,
		rec.Edge, rec.RawEdge, rec.EdgeCapped, rec.Kelly, rec.Confidence,
		rec.Pick, rec.BetType, rec.Book, rec.Odds, rec.Bet, rec.ToWin,
		rec.Result, rec.Payout, rec.Notes,
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append to tracker %s: %w", path, err)
	}

	log.Info().Str("id", rec.ID).Str("file", filepath.Base(path)).Msg("bet logged")
	return nil
}
