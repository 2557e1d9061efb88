package main

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/snapshot"
)

const (
	appName = "courtline"
	version = "v1.4.0"
)

var (
	flagConfig string
	flagData   string
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stdout.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "NBA fair-line engine: compute, decompose and audit point spreads",
		Version: version,
		Long: `Courtline computes fair NBA point spreads from cached team ratings and
situational data, sizes bets against market lines, and audits the recorded
bet history for internal consistency.

The data-acquisition jobs populate the cache files; courtline only reads
them. Run 'courtline health' to see cache freshness.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Data directory override")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the fair line, edge and stake for one matchup",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().String("away", "", "Away team (required)")
	analyzeCmd.Flags().String("home", "", "Home team (required)")
	analyzeCmd.Flags().Float64("market", 0, "Market line, home perspective")
	analyzeCmd.Flags().Bool("log-bet", false, "Append the result to today's bet tracker")
	_ = analyzeCmd.MarkFlagRequired("away")
	_ = analyzeCmd.MarkFlagRequired("home")

	decomposeCmd := &cobra.Command{
		Use:   "decompose",
		Short: "Show the factor waterfall, including the superseded model",
		RunE:  runDecompose,
	}
	decomposeCmd.Flags().String("away", "", "Away team (required)")
	decomposeCmd.Flags().String("home", "", "Home team (required)")
	decomposeCmd.Flags().Float64("market", 0, "Market line, home perspective")
	_ = decomposeCmd.MarkFlagRequired("away")
	_ = decomposeCmd.MarkFlagRequired("home")

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Replay recorded bets under the current model",
		Long: `Replays every settled bet through the current and the superseded model
using today's caches. This quantifies how the model change moves edges;
it does not re-predict historical games.`,
		RunE: runAudit,
	}
	auditCmd.Flags().String("out", "", "Write the full report as JSON to this path")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Audit the bet tracker files for internal consistency",
		RunE:  runValidate,
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Report cache freshness and model performance",
		RunE:  runHealth,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().String("bind", "", "Bind address override")

	rootCmd.AddCommand(analyzeCmd, decomposeCmd, auditCmd, validateCmd, healthCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadApp builds the config and snapshot store shared by every command.
func loadApp() (*config.Config, *snapshot.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	if flagData != "" {
		cfg.Data.Dir = flagData
	}

	var warm *snapshot.WarmSource
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		warm = snapshot.NewWarmSource(client)
	}

	return cfg, snapshot.NewStore(cfg.Data.Dir, warm), nil
}
