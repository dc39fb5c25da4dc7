package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/planner"
)

type segmentReport struct {
	Platform     domain.PlatformInfo  `yaml:"platform"`
	Machine      domain.MachineInfo   `yaml:"machine"`
	Requirements []requirementSummary `yaml:"requirements"`
}

type requirementSummary struct {
	domain.Requirement `yaml:",inline"`
	Complexity         domain.Complexity `yaml:"complexity"`
	Coverage           string            `yaml:"coverage"`
}

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Print the requirements found in the input documents",
	Long:  `Reads the input documents and prints every extracted requirement with its tags, relevance and planned complexity as YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flags := cmd.Flags(); flags.Changed("document") {
			cfg.Input.Documents = overrides.documents
			cfg.Input.Directories = nil
		}

		gen, err := newGenerator(cfg)
		if err != nil {
			return err
		}
		analysis, err := gen.Analyze(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		plnr := planner.New(log, planner.Thresholds{
			MediumWordCount: cfg.Thresholds.MediumWordCount,
			HighWordCount:   cfg.Thresholds.HighWordCount,
		})
		report := segmentReport{Platform: analysis.Platform, Machine: analysis.Machine}
		for _, req := range analysis.Requirements {
			report.Requirements = append(report.Requirements, requirementSummary{
				Requirement: req,
				Complexity:  plnr.ClassifyComplexity(req),
				Coverage:    planner.CoverageLevel(req),
			})
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode requirements: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	segmentCmd.Flags().StringSliceVarP(&overrides.documents, "document", "d", nil, "requirement document to read (repeatable)")
	rootCmd.AddCommand(segmentCmd)
}
