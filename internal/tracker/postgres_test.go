package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepo(sqlx.NewDb(db, "postgres")), mock
}

func sampleRecord() *BetRecord {
	return &BetRecord{
		ID: "BET-20260115-a1b2c3d4", Timestamp: "2026-01-15T19:00:00Z",
		Away: "Miami Heat", Home: "Boston Celtics",
		Fair: "3.25", Market: "-2.5", Edge: "5.75", RawEdge: "5.75",
		EdgeCapped: "No", Kelly: "4.55", Confidence: "HIGH", Pick: "away",
		BetType: "spread", Book: "DK", Odds: "-110", Bet: "100", ToWin: "91",
		Result: ResultPending,
	}
}

func TestRepoInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO bets`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), sampleRecord()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoInsertDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO bets`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Insert(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateBet)
}

func TestRepoUpdateResult(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bets SET result`).
		WithArgs(ResultWin, 191.0, "BET-20260115-a1b2c3d4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateResult(context.Background(), "BET-20260115-a1b2c3d4", ResultWin, 191))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoUpdateResultNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bets SET result`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateResult(context.Background(), "missing", ResultLoss, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRepoList(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "placed_at", "away_team", "home_team", "fair_line", "market_line",
		"edge", "raw_edge", "edge_capped", "kelly_pct", "confidence", "pick",
		"bet_type", "book", "odds", "bet_amount", "to_win", "result", "payout", "notes",
	}).AddRow(
		"BET-1", time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC),
		"Miami Heat", "Boston Celtics", 3.25, -2.5,
		5.75, 5.75, true, 4.55, "HIGH", "away",
		"spread", "DK", "-110", 100.0, 91.0, ResultWin, 191.0, "",
	)

	mock.ExpectQuery(`FROM bets ORDER BY placed_at DESC`).
		WithArgs(10).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "BET-1", records[0].ID)
	assert.Equal(t, "3.25", records[0].Fair)
	assert.Equal(t, "Yes", records[0].EdgeCapped)
}
