package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/tcgen/internal/config"
	"github.com/fjglira/tcgen/internal/generator"
	"github.com/fjglira/tcgen/internal/reader"
	"github.com/fjglira/tcgen/internal/scanner"
)

var overrides struct {
	documents []string
	corpus    string
	format    string
	machine   string
	version   string
	provider  string
	output    string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test cases from requirement documents",
	Long: `Segments the requirement documents, mines the test case corpus, plans coverage
for every requirement and writes the synthesized test cases as a CSV import table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyOverrides(cmd, cfg)

		if err := config.Validate(cfg); err != nil {
			return err
		}

		log.Info("Configuration loaded successfully")
		log.WithField("provider", cfg.Generation.Provider).Debug("Selected generation backend")

		gen, err := newGenerator(cfg)
		if err != nil {
			return err
		}
		result, err := gen.Generate(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		verb := "Wrote"
		if !result.Written {
			verb = "Would write"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d test case(s) for %d requirement(s) to %s\n",
			verb, len(result.TestCases), len(result.Analysis.Requirements), result.OutputPath)
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringSliceVarP(&overrides.documents, "document", "d", nil, "requirement document to read (repeatable)")
	f.StringVar(&overrides.corpus, "corpus", "", "existing test case corpus CSV")
	f.StringVar(&overrides.format, "corpus-format", "", `corpus layout: "columns" or "tfs"`)
	f.StringVar(&overrides.machine, "machine", "", "target machine type")
	f.StringVar(&overrides.version, "version", "", "target version")
	f.StringVar(&overrides.provider, "provider", "", `generation backend: "rule", "openai" or "gemini"`)
	f.StringVarP(&overrides.output, "output", "o", "", "output directory")
	rootCmd.AddCommand(generateCmd)
}

// applyOverrides copies the flags the user set onto cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("document") {
		cfg.Input.Documents = overrides.documents
		cfg.Input.Directories = nil
	}
	if flags.Changed("corpus") {
		cfg.Corpus.Path = overrides.corpus
	}
	if flags.Changed("corpus-format") {
		cfg.Corpus.Format = overrides.format
	}
	if flags.Changed("machine") {
		cfg.Target.MachineType = overrides.machine
	}
	if flags.Changed("version") {
		cfg.Target.Version = overrides.version
	}
	if flags.Changed("provider") {
		cfg.Generation.Provider = overrides.provider
		config.ApplyEnv(cfg)
	}
	if flags.Changed("output") {
		cfg.Output.Directory = overrides.output
	}
}

// newGenerator wires the scanner and reader registry into a generator.
func newGenerator(cfg *config.Config) (*generator.DefaultGenerator, error) {
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	s := scanner.New(recursive, cfg.Input.Include, cfg.Input.Exclude)
	return generator.NewGenerator(s, reader.NewDefaultRegistry(), nil, log)
}
