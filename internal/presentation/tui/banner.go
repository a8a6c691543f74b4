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
	{" _   _                   _           _     _ ", "#818cf8"},
	{"| |_| |__  _ __ ___  ___| |__   ___ | | __| |", "#a78bfa"},
	{"| __| '_ \\| '__/ _ \\/ __| '_ \\ / _ \\| |/ _` |", "#c084fc"},
	{"| |_| | | | | |  __/\\__ \\ | | | (_) | | (_| |", "#e879f9"},
	{" \\__|_| |_|_|  \\___||___/_| |_|\\___/|_|\\__,_|", "#f472b6"},
}

// PrintBanner writes the threshold banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).Profile
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
