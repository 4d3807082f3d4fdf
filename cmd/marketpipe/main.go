// marketpipe — rule-driven market data collection.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/seenimoa/marketpipe/internal/config"
	"github.com/seenimoa/marketpipe/internal/logger"
	"github.com/seenimoa/marketpipe/internal/pipeline"
	"github.com/seenimoa/marketpipe/internal/report"
	"github.com/seenimoa/marketpipe/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and rule index, loaded by the root PersistentPreRunE.
var (
	cfg   *config.Config
	rules *config.RuleIndex
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketpipe",
	Short: "marketpipe — rule-driven market data collection",
	Long: `marketpipe collects commodity and currency quotes from configured
web sources, normalizes them into typed records, validates them against
per-source and business rules, and merges duplicates into clean CSV and
HTML outputs. Sources are declarative: adding one is a rules file edit,
not a code change.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}

		rulesFile, _ := cmd.Flags().GetString("rules")
		rules, err = config.LoadRules(rulesFile)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/marketpipe.yaml)")
	rootCmd.PersistentFlags().String("rules", "./config/rules.yaml", "scraping rules file path")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(checkCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marketpipe %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Collect Command ---

var collectCmd = &cobra.Command{
	Use:   "collect [source...]",
	Short: "Run a collection cycle",
	Long: `Fetch, extract, normalize, validate and merge quotes from all
enabled sources, or only from the sources named as arguments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(logger.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			File:   cfg.Logging.File,
		})

		collector := pipeline.New(cfg, rules, log)

		var result *models.CollectionResult
		var err error
		if len(args) > 0 {
			result, err = collector.RunSources(cmd.Context(), args)
		} else {
			result, err = collector.Run(cmd.Context())
		}
		if result == nil {
			return err
		}
		if err != nil {
			log.WithError(err).Warn("collection finished with source errors")
		}

		report.WriteSummary(os.Stdout, result)

		if cfg.Output.CSV {
			if len(result.Commodities) > 0 {
				path := filepath.Join(cfg.Output.Dir, "commodities.csv")
				if werr := report.WriteCommodityCSV(result.Commodities, path); werr != nil {
					return werr
				}
				log.WithField("path", path).Info("wrote commodity CSV")
			}
			if len(result.Pairs) > 0 {
				path := filepath.Join(cfg.Output.Dir, "currency_pairs.csv")
				if werr := report.WritePairCSV(result.Pairs, path); werr != nil {
					return werr
				}
				log.WithField("path", path).Info("wrote currency pair CSV")
			}
		}
		if cfg.Output.HTML && result.Accepted() > 0 {
			if werr := report.WriteHTML(cfg.Output.Dir, result); werr != nil {
				return werr
			}
			log.WithField("dir", cfg.Output.Dir).Info("wrote HTML report")
		}
		return nil
	},
}

// --- Sources Command ---

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Source", "Type", "Parser", "Method", "URLs", "Enabled"})
		for _, name := range rules.Names() {
			rs, err := rules.Get(name)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{rs.Name, rs.Kind, rs.Parser, rs.Method, len(rs.URLs), rs.Enabled})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

// --- Check Command ---

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and rules without collecting",
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already parsed and validated both files;
		// reaching this point means they loaded cleanly.
		fmt.Printf("config OK: logging=%s fetch_timeout=%ds workers=%d strict=%v\n",
			cfg.Logging.Level, cfg.Fetch.TimeoutSec, cfg.Collector.MaxWorkers, cfg.Validation.Strict)
		fmt.Printf("rules OK: %d sources (%d enabled)\n", len(rules.Names()), len(rules.Enabled()))
		return nil
	},
}
