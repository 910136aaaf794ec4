package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"        _                          ", "#34d399"},
	{"   __ _| |__   __ _  ___ _   _ ___ ", "#2dd4bf"},
	{"  / _` | '_ \\ / _` |/ __| | | / __|", "#22d3ee"},
	{" | (_| | |_) | (_| | (__| |_| \\__ \\", "#38bdf8"},
	{"  \\__,_|_.__/ \\__,_|\\___|\\__,_|___/", "#60a5fa"},
}

// PrintBanner writes the Abacus banner followed by the version line.
func PrintBanner(w io.Writer, version string) {
	PrintBannerWithProfile(w, termenv.ColorProfile(), version)
}

// PrintBannerWithProfile is PrintBanner with an explicit colour profile.
func PrintBannerWithProfile(w io.Writer, p termenv.Profile, version string) {
	// Teal to blue, top to bottom
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
