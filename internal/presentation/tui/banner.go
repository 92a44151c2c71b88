package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ___              _          `, "#38bdf8"},
	{`  / _ \ _  _ ___ __| |_ ___    `, "#22d3ee"},
	{` | (_) | || / _ \ _|  _/ -_)   `, "#2dd4bf"},
	{`  \__\_\\_,_\___/\__|\__\___|  `, "#34d399"},
}

// PrintBanner writes the chat banner and the catalog title to w.
func PrintBanner(w io.Writer, title string) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if title != "" {
		fmt.Fprintln(w, termenv.String("  "+title).Faint())
	}
	fmt.Fprintln(w)
}
