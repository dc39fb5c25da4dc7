package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/tcgen/internal/config"
)

const defaultConfigFile = "tcgen.yaml"

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     = logrus.New()
)

// rootCmd is the base command for tcgen.
var rootCmd = &cobra.Command{
	Use:   "tcgen",
	Short: "Generate manual test cases from requirement documents",
	Long: `tcgen reads requirement documents (plain text, Markdown, AsciiDoc) and an
existing test case corpus, and writes new test cases for a target machine type and
version as a TFS-style CSV import table.

Everything is driven by a YAML configuration file (tcgen.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "generate but don't write files")
}

// Execute runs the root command with ctx, which cancels in-flight generation.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the config file, then .env and environment overrides.
// A missing default config file falls back to the built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if _, err := os.Stat(cfgFile); err == nil || cmd.Flags().Changed("config") {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	} else {
		log.Debugf("No %s found, using defaults", cfgFile)
	}

	config.LoadDotEnv()
	config.ApplyEnv(cfg)
	if dryRun {
		cfg.DryRun = true
	}
	if err := configureLogging(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(lc config.LoggingConfig) error {
	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
	}
	return nil
}
