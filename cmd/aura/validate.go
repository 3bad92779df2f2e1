package main

import (
	"context"
	"fmt"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/internal/cli"
	"github.com/aretw0/aura/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration, prompts and workflow graph",
	Long: `Loads the configuration, reads every template and builds the workflow graph
without serving any request. Exits non-zero on the first problem.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		overrides, _ := cmd.Flags().GetStringToString("prompt")
		app, err := cli.Build(context.Background(), cfg, logger, overrides)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		out := cmd.OutOrStdout()
		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(out, app.Agent.Graph().Mermaid())
			return nil
		}

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(out, termenv.Ascii, aura.Version)
		}
		fmt.Fprintf(out, "✓ Configuration is valid (prompts: %s, provider: %s)\n", cfg.Prompts.Source, cfg.LLM.Provider)
		fmt.Fprintf(out, "✓ Workflow: %v\n", app.Agent.Graph().Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("mermaid", false, "Print the workflow graph as a Mermaid flowchart")
	validateCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
