package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/courtline/internal/engine"
	"github.com/sawpanic/courtline/internal/snapshot"
	"github.com/sawpanic/courtline/internal/tracker"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	away, _ := cmd.Flags().GetString("away")
	home, _ := cmd.Flags().GetString("home")
	logBet, _ := cmd.Flags().GetBool("log-bet")

	cfg, store, err := loadApp()
	if err != nil {
		return err
	}

	ctx := context.Background()
	snaps, err := store.Load(ctx)
	if err != nil {
		return err
	}

	f, err := engine.ComputeFairLine(away, home, snaps, cfg.Model)
	if err != nil {
		return err
	}
	grade, reason := engine.Confidence(f)

	fmt.Printf("%s @ %s\n", f.AwayTeam, f.HomeTeam)
	fmt.Printf("  fair line:  %+.2f\n", f.Value)
	fmt.Printf("  confidence: %s (%s)\n", grade, reason)
	if f.StarTaxUnavailable() {
		fmt.Println("  note: star on/off data unavailable for at least one side")
	}

	market, haveMarket := marketLine(cmd, f, snaps)
	if !haveMarket {
		fmt.Println("  no market line given or cached; skipping edge and stake")
		return nil
	}

	stake := engine.ComputeEdgeAndStake(f.Value, market, cfg.Model)
	fmt.Printf("  market:     %+.2f\n", market)
	fmt.Printf("  raw edge:   %.2f\n", stake.RawEdge)
	if stake.Capped {
		fmt.Printf("  edge:       %.2f (capped at %.0f)\n", stake.CappedEdge, cfg.Model.EdgeCap)
	} else {
		fmt.Printf("  edge:       %.2f\n", stake.CappedEdge)
	}
	fmt.Printf("  kelly:      %.2f%% of bankroll\n", stake.KellyPct)
	fmt.Printf("  pick:       %s\n", pickName(stake.Pick, f))

	if !logBet {
		return nil
	}

	// The tracker records the picked team by name; "home"/"away" only mean
	// something next to this game's header.
	pickTeam := f.AwayTeam
	if stake.Pick == "home" {
		pickTeam = f.HomeTeam
	}

	now := time.Now().UTC()
	rec := tracker.BetRecord{
		ID:         tracker.NewID(now),
		Timestamp:  now.Format(time.RFC3339),
		Away:       f.AwayTeam,
		Home:       f.HomeTeam,
		Fair:       fmt.Sprintf("%.2f", f.Value),
		Market:     fmt.Sprintf("%.2f", market),
		Edge:       fmt.Sprintf("%.2f", stake.CappedEdge),
		RawEdge:    fmt.Sprintf("%.2f", stake.RawEdge),
		EdgeCapped: capFlag(stake.Capped),
		Kelly:      fmt.Sprintf("%.2f", stake.KellyPct),
		Confidence: grade,
		Pick:       pickTeam,
		BetType:    "spread",
		Result:     tracker.ResultPending,
	}
	if err := tracker.Append(cfg.Data.Dir, now, rec); err != nil {
		return err
	}
	fmt.Printf("  logged as %s\n", rec.ID)

	if cfg.Postgres.DSN != "" {
		db, err := tracker.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Warn().Err(err).Msg("postgres mirror unavailable, bet kept in CSV only")
			return nil
		}
		defer db.Close()
		if err := tracker.NewRepo(db).Insert(ctx, &rec); err != nil {
			log.Warn().Err(err).Msg("postgres mirror insert failed")
		}
	}
	return nil
}

// marketLine takes the --market flag when set, otherwise tries the odds
// cache.
func marketLine(cmd *cobra.Command, f *engine.FairLine, snaps *snapshot.Snapshots) (float64, bool) {
	if cmd.Flags().Changed("market") {
		v, _ := cmd.Flags().GetFloat64("market")
		return v, true
	}
	return snaps.MarketFor(f.AwayTeam, f.HomeTeam)
}

func pickName(side string, f *engine.FairLine) string {
	if side == "home" {
		return fmt.Sprintf("home (%s)", f.HomeTeam)
	}
	return fmt.Sprintf("away (%s)", f.AwayTeam)
}

func capFlag(capped bool) string {
	if capped {
		return "Yes"
	}
	return "No"
}
