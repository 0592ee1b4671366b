package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/prop-ensemble/internal/cache"
	"github.com/yourusername/prop-ensemble/internal/config"
	"github.com/yourusername/prop-ensemble/internal/ensemble"
	"github.com/yourusername/prop-ensemble/internal/logger"
	"github.com/yourusername/prop-ensemble/internal/metrics"
	"github.com/yourusername/prop-ensemble/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	logLevel     string
	appLogger    *logrus.Logger
	cfg          *config.Config
	orchestrator *ensemble.Orchestrator
	scoring      *service.ScoringService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(scoreCmd, batchCmd, simulateCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "prop-ensemble",
	Short: "Score player prop lines with a multi-model ensemble",
	Long: `Blends a rate projection, an empirical hit rate, a regression, the market
price and a Bayesian update into one over-probability, confidence and bet call.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "prop-ensemble %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	appLogger = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	ec, err := ensemble.FromConfig(&cfg.Ensemble)
	if err != nil {
		return err
	}
	orchestrator, err = ensemble.New(ec)
	if err != nil {
		return err
	}

	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		resultCache = cache.NewResultCache(cfg.Cache.TTL(), cfg.Cache.MaxSize)
	}
	scoring = service.NewScoringService(orchestrator, resultCache, cfg.Batch.Workers, appLogger)

	appLogger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"cache":       cfg.Cache.Enabled,
		"workers":     cfg.Batch.Workers,
	}).Debug("Dependencies ready")
	return nil
}

// openInput opens path for reading, "-" meaning stdin
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
