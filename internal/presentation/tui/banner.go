package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"   __ _               _                         _ ", "#38bdf8"},
	{"  / _| | _____      _| |__   ___   __ _ _ __ __| |", "#22d3ee"},
	{" | |_| |/ _ \\ \\ /\\ / / '_ \\ / _ \\ / _` | '__/ _` |", "#2dd4bf"},
	{" |  _| | (_) \\ V  V /| |_) | (_) | (_| | | | (_| |", "#34d399"},
	{" |_| |_|\\___/ \\_/\\_/ |_.__/ \\___/ \\__,_|_|  \\__,_|", "#4ade80"},
}

// PrintBanner writes the flowboard banner to w, coloured when w supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
