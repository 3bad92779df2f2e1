package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/internal/presentation/tui"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/stream"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrRunFailed is returned when a streamed run ends with an error frame.
var ErrRunFailed = errors.New("run ended with an error frame")

// AskOptions configures a one-shot question from the command line.
type AskOptions struct {
	Stream bool
	// SSE, when set in stream mode, receives raw "data: <json>" frames instead of Printer.
	SSE io.Writer
	// Printer defaults to NewPrinter(os.Stdout).
	Printer *tui.FramePrinter
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewPrinter picks markdown rendering and colors when out is a terminal, plain text otherwise.
func NewPrinter(out io.Writer) *tui.FramePrinter {
	if IsTerminal(out) {
		f := out.(*os.File)
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 0
		}
		if render, err := tui.NewRenderer(width); err == nil {
			return tui.NewFramePrinter(out, render, termenv.ColorProfile())
		}
	}
	return tui.NewFramePrinter(out, tui.Plain, termenv.Ascii)
}

// Ask runs query through agent and prints the result.
// In stream mode every frame is printed as it arrives.
func Ask(ctx context.Context, agent *aura.Agent, query string, opts AskOptions) error {
	printer := opts.Printer
	if printer == nil {
		printer = NewPrinter(os.Stdout)
	}
	req := domain.AgentRequest{Request: query}

	if !opts.Stream {
		resp, err := agent.Ask(ctx, req)
		if err != nil {
			return err
		}
		return printer.Print(resp)
	}

	frames, err := agent.Stream(ctx, req)
	if err != nil {
		return err
	}
	var last domain.AgentResponse
	for frame := range frames {
		if opts.SSE != nil {
			err = stream.WriteSSE(opts.SSE, frame)
		} else {
			err = printer.Print(frame)
		}
		if err != nil {
			return fmt.Errorf("failed to print frame: %w", err)
		}
		last = frame
	}
	if last.IsError() {
		return ErrRunFailed
	}
	return nil
}
