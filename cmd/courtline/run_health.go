package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sawpanic/courtline/internal/explain"
	"github.com/sawpanic/courtline/internal/tracker"
)

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadApp()
	if err != nil {
		return err
	}

	fmt.Println("cache freshness")
	now := time.Now().UTC()
	for _, cache := range store.Staleness(context.Background(), now, cfg.Data.StalenessThreshold) {
		switch {
		case cache.Missing:
			fmt.Printf("  %-26s MISSING\n", cache.Name)
		case cache.Stale:
			fmt.Printf("  %-26s STALE (%.1fh old)\n", cache.Name, cache.Age.Hours())
		default:
			fmt.Printf("  %-26s ok (%.1fh old)\n", cache.Name, cache.Age.Hours())
		}
	}

	if st, stErr := store.StarTax(context.Background()); stErr == nil {
		available := 0
		for _, team := range st.Teams {
			if team.Err == "" {
				available++
			}
		}
		fmt.Printf("\nstar on/off data available for %d of %d teams\n", available, len(st.Teams))
	}

	records, err := tracker.ReadDir(cfg.Data.Dir)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\nno tracked bets; model performance checks skipped")
		return nil
	}

	report := explain.ModelHealth(records)
	fmt.Printf("\nmodel performance (%d settled of %d tracked)\n", report.Sample, len(records))
	fmt.Printf("  record: %d-%d-%d, win rate %.1f%%\n",
		report.Wins, report.Losses, report.Pushes, report.WinRate*100)

	fmt.Println("  edge tiers:")
	for _, tier := range report.Tiers {
		if tier.Bets == 0 {
			continue
		}
		hi := fmt.Sprintf("%.0f", tier.Hi)
		if tier.Hi >= 1e9 {
			hi = "+"
		}
		fmt.Printf("    %3.0f-%-3s %4d bet(s), %.1f%% wins\n", tier.Lo, hi, tier.Bets, tier.WinRate*100)
	}

	for _, finding := range report.Findings {
		fmt.Printf("  * %s\n", finding)
	}
	return nil
}
