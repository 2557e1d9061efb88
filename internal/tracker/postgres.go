package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ErrDuplicateBet signals an insert with an id that already exists.
var ErrDuplicateBet = errors.New("bet id already recorded")

const queryTimeout = 5 * time.Second

// Repo mirrors tracked bets into postgres.
type Repo struct {
	db *sqlx.DB
}

// NewRepo opens the bets repository over an existing connection pool.
func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Connect opens a postgres pool from a DSN and verifies it.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// betRow is the database shape of a record; unparseable recorded numbers map
// to NULL instead of poisoning the insert.
type betRow struct {
	ID         string          `db:"id"`
	PlacedAt   time.Time       `db:"placed_at"`
	AwayTeam   string          `db:"away_team"`
	HomeTeam   string          `db:"home_team"`
	FairLine   sql.NullFloat64 `db:"fair_line"`
	MarketLine sql.NullFloat64 `db:"market_line"`
	Edge       sql.NullFloat64 `db:"edge"`
	RawEdge    sql.NullFloat64 `db:"raw_edge"`
	EdgeCapped bool            `db:"edge_capped"`
	KellyPct   sql.NullFloat64 `db:"kelly_pct"`
	Confidence string          `db:"confidence"`
	Pick       string          `db:"pick"`
	BetType    string          `db:"bet_type"`
	Book       string          `db:"book"`
	Odds       string          `db:"odds"`
	BetAmount  sql.NullFloat64 `db:"bet_amount"`
	ToWin      sql.NullFloat64 `db:"to_win"`
	Result     string          `db:"result"`
	Payout     sql.NullFloat64 `db:"payout"`
	Notes      string          `db:"notes"`
}

func nullFloat(parse func() (float64, bool)) sql.NullFloat64 {
	if v, ok := parse(); ok {
		return sql.NullFloat64{Float64: v, Valid: true}
	}
	return sql.NullFloat64{}
}

func toRow(rec *BetRecord) betRow {
	placedAt := time.Now().UTC()
	if ts, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
		placedAt = ts
	}
	capped, _ := rec.CappedFlag()
	result := rec.Result
	if result == "" {
		result = ResultPending
	}

	return betRow{
		ID:         rec.ID,
		PlacedAt:   placedAt,
		AwayTeam:   rec.Away,
		HomeTeam:   rec.Home,
		FairLine:   nullFloat(rec.FairValue),
		MarketLine: nullFloat(rec.MarketValue),
		Edge:       nullFloat(rec.EdgeValue),
		RawEdge:    nullFloat(rec.RawEdgeValue),
		EdgeCapped: capped,
		KellyPct:   nullFloat(rec.KellyValue),
		Confidence: rec.Confidence,
		Pick:       rec.Pick,
		BetType:    rec.BetType,
		Book:       rec.Book,
		Odds:       rec.Odds,
		BetAmount:  nullFloat(func() (float64, bool) { return parseField(rec.Bet) }),
		ToWin:      nullFloat(func() (float64, bool) { return parseField(rec.ToWin) }),
		Result:     result,
		Payout:     nullFloat(func() (float64, bool) { return parseField(rec.Payout) }),
		Notes:      rec.Notes,
	}
}

const insertBet = `
	INSERT INTO bets (
		id, placed_at, away_team, home_team, fair_line, market_line,
		edge, raw_edge, edge_capped, kelly_pct, confidence, pick,
		bet_type, book, odds, bet_amount, to_win, result, payout, notes
	) VALUES (
		:id, :placed_at, :away_team, :home_team, :fair_line, :market_line,
		:edge, :raw_edge, :edge_capped, :kelly_pct, :confidence, :pick,
		:bet_type, :book, :odds, :bet_amount, :to_win, :result, :payout, :notes
	)`

// Insert records one bet. Returns ErrDuplicateBet on an id collision.
func (r *Repo) Insert(ctx context.Context, rec *BetRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, insertBet, toRow(rec))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrDuplicateBet, rec.ID)
		}
		return fmt.Errorf("failed to insert bet %s: %w", rec.ID, err)
	}

	log.Debug().Str("id", rec.ID).Msg("bet mirrored to postgres")
	return nil
}

// UpdateResult settles a bet.
func (r *Repo) UpdateResult(ctx context.Context, id, result string, payout float64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE bets SET result = $1, payout = $2 WHERE id = $3`, result, payout, id)
	if err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bet %s not found", id)
	}
	return nil
}

// List returns the most recent bets, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]BetRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []betRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, placed_at, away_team, home_team, fair_line, market_line,
		        edge, raw_edge, edge_capped, kelly_pct, confidence, pick,
		        bet_type, book, odds, bet_amount, to_win, result, payout, notes
		   FROM bets ORDER BY placed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	records := make([]BetRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromRow(row))
	}
	return records, nil
}

func formatFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%g", v.Float64)
}

func fromRow(row betRow) BetRecord {
	capped := "No"
	if row.EdgeCapped {
		capped = "Yes"
	}
	return BetRecord{
		ID:         row.ID,
		Timestamp:  row.PlacedAt.UTC().Format(time.RFC3339),
		Away:       row.AwayTeam,
		Home:       row.HomeTeam,
		Fair:       formatFloat(row.FairLine),
		Market:     formatFloat(row.MarketLine),
		Edge:       formatFloat(row.Edge),
		RawEdge:    formatFloat(row.RawEdge),
		EdgeCapped: capped,
		Kelly:      formatFloat(row.KellyPct),
		Confidence: row.Confidence,
		Pick:       row.Pick,
		BetType:    row.BetType,
		Book:       row.Book,
		Odds:       row.Odds,
		Bet:        formatFloat(row.BetAmount),
		ToWin:      formatFloat(row.ToWin),
		Result:     row.Result,
		Payout:     formatFloat(row.Payout),
		Notes:      row.Notes,
	}
}
