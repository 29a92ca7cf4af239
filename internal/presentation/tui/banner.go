package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tendero banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Warm gradient (amber to rose)
	lines := []struct {
		text  string
		color string
	}{
		{"  _                 _", "#fbbf24"},
		{" | |_ ___ _ __   __| | ___ _ __ ___", "#f59e0b"},
		{" | __/ _ \\ '_ \\ / _` |/ _ \\ '__/ _ \\", "#f97316"},
		{" | ||  __/ | | | (_| |  __/ | | (_) |", "#ef4444"},
		{"  \\__\\___|_| |_|\\__,_|\\___|_|  \\___/", "#e11d48"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)+"  ·  /reset  /salir").Faint())
	fmt.Fprintln(w)
}
