package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/courtline/internal/explain"
)

func runDecompose(cmd *cobra.Command, args []string) error {
	away, _ := cmd.Flags().GetString("away")
	home, _ := cmd.Flags().GetString("home")

	cfg, store, err := loadApp()
	if err != nil {
		return err
	}
	snaps, err := store.Load(context.Background())
	if err != nil {
		return err
	}

	var market *float64
	if cmd.Flags().Changed("market") {
		v, _ := cmd.Flags().GetFloat64("market")
		market = &v
	} else if line, found := snaps.MarketFor(away, home); found {
		market = &line
	}

	d, err := explain.Decompose(away, home, market, snaps, cfg.Model)
	if err != nil {
		return err
	}

	fmt.Print(explain.Waterfall(d))
	return nil
}
