package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// RenderFunc turns markdown into terminal output.
type RenderFunc func(string) (string, error)

// NewRenderer returns a function that renders markdown using glamour.
// wordWrap of zero keeps glamour's default width.
func NewRenderer(wordWrap int) (RenderFunc, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Plain renders text unchanged. Used when output is not a terminal.
func Plain(text string) (string, error) {
	return text + "\n", nil
}

// FramePrinter writes response frames for humans.
type FramePrinter struct {
	Out    io.Writer
	Render RenderFunc
	// Profile colors the frame headers. termenv.Ascii disables colors.
	Profile termenv.Profile
}

// NewFramePrinter creates a printer. A nil render falls back to Plain.
func NewFramePrinter(out io.Writer, render RenderFunc, profile termenv.Profile) *FramePrinter {
	if render == nil {
		render = Plain
	}
	return &FramePrinter{Out: out, Render: render, Profile: profile}
}

// Print writes one frame: a colored header followed by the rendered message.
func (p *FramePrinter) Print(frame domain.AgentResponse) error {
	header := p.Profile.String(fmt.Sprintf("[%s] %s", frame.Type, frame.Detail.Entity))
	if frame.IsError() {
		header = header.Foreground(p.Profile.Color("#fb7185")).Bold()
	} else {
		header = header.Foreground(p.Profile.Color("#818cf8"))
	}

	body := frame.Detail.Message
	if !frame.IsError() {
		rendered, err := p.Render(body)
		if err != nil {
			return err
		}
		body = rendered
	} else {
		body += "\n"
	}

	_, err := fmt.Fprintf(p.Out, "%s\n%s", header, body)
	return err
}
