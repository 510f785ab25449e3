// Package commands implements the CLI commands for collegescout.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/collegescout/internal/config"
	"github.com/jmylchreest/collegescout/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "collegescout",
	Short: "Karnataka college information extraction and normalization",
	Long: `Collegescout discovers Karnataka college websites, extracts contact,
course and facility details, normalizes them into scored records and
generates plain-language guidance for rural students.

Examples:
  # Discover colleges and process them with the default sources
  collegescout scrape

  # Process specific pages only
  collegescout scrape -u https://www.rvce.edu.in/ --no-discover

  # Continue a previous run, skipping colleges already processed
  collegescout scrape --resume --database runs.db

  # Clean records scraped elsewhere
  collegescout clean -i raw.json -o clean.json

  # Look up a well-known institution
  collegescout lookup "RV College of Engineering" --fetch`,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Close()
	},
}

// configErr holds a config file read failure until a command needs config.
var configErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.collegescout.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("json-logs", false, "write logs as JSON")
	rootCmd.PersistentFlags().String("log-dir", "", "also append logs to a daily file in this directory")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	_ = viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
}

func initConfig() {
	configErr = config.Init(viper.GetViper(), viper.GetString("config"))
}

// setup loads and validates configuration and initializes the logger.
func setup() (config.Config, error) {
	initLogger("")
	if configErr != nil {
		return config.Config{}, configErr
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}
	initLogger(cfg.LogDir)
	logger.Debug("configuration loaded", "file", viper.ConfigFileUsed())
	return cfg, nil
}

func initLogger(dir string) {
	err := logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("json_logs"),
		File:  dir,
	})
	if err != nil {
		logger.Warn("log file unavailable", "dir", dir, "error", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
