package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/config"
	"github.com/vijay-prabhu/billsample/internal/database"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	verbose    bool
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "billsample",
	Short: "Build a stratified sample of legislative bills",
	Long: `billsample classifies a corpus of legislative bills by expected public
impact, scores how far each bill progressed through the legislative
process, and draws a reproducible stratified sample.

It provides:
  - Keyword-based impact classification (high, medium, low, mixed)
  - Progression scoring from each bill's action history
  - Stratified sampling with a top-ranked and a random share per tier
  - A JSON summary report and a local ledger of every run
  - MCP server for AI assistant integration`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ~/.config/billsample/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(home, ".config", "billsample", "config.toml")
	}
}

// loadConfig reads the config file and configures logging. A missing file
// at the default location falls back to the built-in defaults; a missing
// file passed with --config is an error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, config.ErrNotFound) && !rootCmd.PersistentFlags().Changed("config") {
		cfg = config.Default()
		err = cfg.Finalize()
	}
	if err != nil {
		return nil, err
	}

	slog.SetDefault(newLogger(cfg.Logging, verbose))
	return cfg, nil
}

// newLogger builds a stderr logger from the logging config
func newLogger(lc config.LoggingConfig, debug bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openDB opens the run ledger, creating its directory if needed
func openDB(cfg *config.Config) (*database.DB, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("billsample %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
