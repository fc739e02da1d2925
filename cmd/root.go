package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/staffboard/internal/config"
	"github.com/KaramelBytes/staffboard/internal/dataset"
	"github.com/KaramelBytes/staffboard/internal/logging"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagData      string
	flagDelimiter string
	flagDecimal   string
	flagLogLevel  string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger writes to stderr; replaced once config is loaded
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "staffboard",
	Short: "Staffboard: employee analytics dashboard over a CSV export",
	Long: `Staffboard loads an employee table (CSV/TSV), filters it by department,
country and business unit, and reports salary metrics, breakdowns and charts
either as a local web dashboard or as a text report. The extract command dumps
the source MySQL table to the CSV the dashboard reads.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.staffboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "dataset path (overrides dataset_path)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter: ',', ';', '\\t'|tab (default: by extension)")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|','")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so config set can repair the file
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{ListenAddr: "127.0.0.1:8501", LogLevel: "info", LogFormat: "text", MySQLPort: 3306}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DatasetPath = flagData
	}
	if f.Changed("delimiter") {
		if err := cfg.Set("delimiter", flagDelimiter); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
	}
	if f.Changed("decimal") {
		if err := cfg.Set("decimal_separator", flagDecimal); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using defaults\n", err)
		l, _ = logging.New("info", "text", os.Stderr)
	}
	logger = l
	slog.SetDefault(logger)
}

// readOptions maps the effective config to dataset read options.
func readOptions() dataset.ReadOptions {
	return dataset.ReadOptions{Delimiter: cfg.DelimiterRune(), DecimalSeparator: cfg.DecimalRune()}
}

// loadTable loads the configured dataset.
func loadTable() (*dataset.Table, error) {
	if cfg.DatasetPath == "" {
		return nil, fmt.Errorf("no dataset configured (use --data or config set dataset_path)")
	}
	t, err := dataset.Load(cfg.DatasetPath, readOptions())
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "path", cfg.DatasetPath, "rows", t.Len(), "columns", len(t.Header))
	return t, nil
}
