package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the easybake ASCII art banner.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	// Warm oven gradient (Amber/Orange/Rose)
	lines := []struct {
		text  string
		color string
	}{
		{"                        _           _        ", "#fcd34d"},
		{"   ___  __ _ ___ _   _ | |__   __ _| | _____ ", "#fbbf24"},
		{"  / _ \\/ _` / __| | | || '_ \\ / _` | |/ / _ \\", "#f59e0b"},
		{" |  __/ (_| \\__ \\ |_| || |_) | (_| |   <  __/", "#f97316"},
		{"  \\___|\\__,_|___/\\__, ||_.__/ \\__,_|_|\\_\\___|", "#ef4444"},
		{"                 |___/                       ", "#f43f5e"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
