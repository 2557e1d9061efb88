package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/courtline/internal/tracker"
	"github.com/sawpanic/courtline/internal/validate"
)

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadApp()
	if err != nil {
		return err
	}

	files, err := tracker.Files(cfg.Data.Dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no tracker files found")
		return nil
	}

	var summary validate.Summary
	for _, path := range files {
		records, err := tracker.ReadFile(path)
		if err != nil {
			return err
		}
		summary.Add(path, records, cfg.Model)
	}

	for _, file := range summary.Files {
		fmt.Printf("%s: %d bet(s), %d clean\n", file.File, file.Bets, file.Clean)
		for _, issue := range file.Issues {
			fmt.Printf("  %s\n", issue)
		}
	}
	fmt.Println(summary.Verdict())

	if summary.Errors > 0 {
		return fmt.Errorf("%d validation error(s)", summary.Errors)
	}
	return nil
}
