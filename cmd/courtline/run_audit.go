package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/courtline/internal/atomicio"
	"github.com/sawpanic/courtline/internal/explain"
	"github.com/sawpanic/courtline/internal/tracker"
)

func runAudit(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")

	cfg, store, err := loadApp()
	if err != nil {
		return err
	}
	snaps, err := store.Load(context.Background())
	if err != nil {
		return err
	}
	records, err := tracker.ReadDir(cfg.Data.Dir)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no tracked bets found")
		return nil
	}

	report := explain.Audit(records, snaps, cfg.Model)
	contributions := explain.ContributionReport(records, snaps, cfg.Model)

	fmt.Printf("replayed %d bet(s), skipped %d\n", report.Replayed, report.Skipped)
	if report.Replayed > 0 {
		fmt.Printf("  avg edge, current model:    %.2f\n", report.AvgNewEdge)
		fmt.Printf("  avg edge, superseded model: %.2f\n", report.AvgOldEdge)
		fmt.Printf("  compression:                %.2f\n", report.Compression)
		fmt.Printf("  bets the current model would skip: %d\n", report.WouldSkip)
	}

	fmt.Println("\nfactor contributions (avg points)")
	fmt.Printf("  %-16s %8s %8s %8s\n", "factor", "all", "wins", "losses")
	for _, c := range contributions {
		fmt.Printf("  %-16s %+8.2f %+8.2f %+8.2f\n", c.Factor, c.All, c.Wins, c.Losses)
	}

	if outPath != "" {
		payload := map[string]any{
			"audit":         report,
			"contributions": contributions,
		}
		if err := atomicio.WriteJSON(outPath, payload); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nreport written to %s\n", outPath)
	}
	return nil
}
