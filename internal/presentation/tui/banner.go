package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Aura banner and version.
func PrintBanner(w io.Writer, profile termenv.Profile, version string) {
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{"     _                    ", "#818cf8"},
		{"    / \\  _   _ _ __ __ _ ", "#a78bfa"},
		{"   / _ \\| | | | '__/ _` |", "#c084fc"},
		{"  / ___ \\ |_| | | | (_| |", "#e879f9"},
		{" /_/   \\_\\__,_|_|  \\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w, profile.String(" v"+version).Foreground(profile.Color("#fb7185")).Faint())
	fmt.Fprintln(w)
}
