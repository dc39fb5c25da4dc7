package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fjglira/tcgen/internal/sharedsteps"
)

var sharedStepsCmd = &cobra.Command{
	Use:   "shared-steps",
	Short: "Manage the reusable shared steps",
}

var newStep struct {
	title   string
	steps   []string
	results []string
}

var sharedStepsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shared steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTEPS")
		for _, s := range registry.List() {
			fmt.Fprintf(w, "%s\t%s\t%d\n", s.ID, s.Title, len(s.Steps))
		}
		return w.Flush()
	},
}

var sharedStepsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a shared step",
	RunE: func(cmd *cobra.Command, args []string) error {
		if newStep.title == "" || len(newStep.steps) == 0 {
			return fmt.Errorf("--title and at least one --step are required")
		}
		registry, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		step, err := registry.Create(newStep.title, newStep.steps, newStep.results, !dryRun)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", step.ID)
		return nil
	},
}

var sharedStepsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a shared step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		if err := registry.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func loadRegistry(cmd *cobra.Command) (*sharedsteps.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	registry := sharedsteps.New(cfg.SharedSteps.Directory, log)
	if err := registry.Load(); err != nil {
		return nil, err
	}
	return registry, nil
}

func init() {
	f := sharedStepsCreateCmd.Flags()
	f.StringVar(&newStep.title, "title", "", "shared step title")
	f.StringArrayVar(&newStep.steps, "step", nil, "step action (repeatable)")
	f.StringArrayVar(&newStep.results, "result", nil, "expected result (repeatable)")

	sharedStepsCmd.AddCommand(sharedStepsListCmd, sharedStepsCreateCmd, sharedStepsRemoveCmd)
	rootCmd.AddCommand(sharedStepsCmd)
}
