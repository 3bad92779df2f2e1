package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/aura/internal/cli"
	"github.com/aretw0/aura/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question from the command line",
	Long: `Runs one question through the workflow and prints the answer.
With --stream every intermediate message is printed as soon as it is produced.
Answers are rendered as markdown when stdout is a terminal; streamed output that is
piped is written as Server-Sent Events frames.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := buildApp(ctx, cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		stream, _ := cmd.Flags().GetBool("stream")
		opts := cli.AskOptions{Stream: stream}
		plain, _ := cmd.Flags().GetBool("plain")
		switch {
		case plain:
			opts.Printer = tui.NewFramePrinter(cmd.OutOrStdout(), tui.Plain, termenv.Ascii)
		case stream && !cli.IsTerminal(cmd.OutOrStdout()):
			// Piped output gets the same frames as the HTTP stream.
			opts.SSE = cmd.OutOrStdout()
		default:
			opts.Printer = cli.NewPrinter(cmd.OutOrStdout())
		}

		return cli.Ask(ctx, app.Agent, strings.Join(args, " "), opts)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolP("stream", "s", false, "Print every message as it is produced")
	askCmd.Flags().Bool("plain", false, "Disable markdown rendering and colors")
}
