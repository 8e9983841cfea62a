package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"notes-app/internal/model"
)

// swatch renders a small block in the note color.
func swatch(c model.Color) string {
	r, g, b := c.RGB()
	return color.BgRGB(int(r), int(g), int(b)).Sprint("  ")
}

func formatDate(n model.Note) string {
	return n.Time().Local().Format("Jan 2, 2006 15:04")
}

// preview returns the first line of s, cut to at most width runes.
func preview(s string, width int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	runes := []rune(line)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return line
}

func printNoteLine(w io.Writer, n model.Note) {
	fmt.Fprintf(w, "%s %-5d %-28s %s  %s\n",
		swatch(n.Color),
		n.ID,
		preview(n.Title, 28),
		color.New(color.FgHiBlack).Sprint(formatDate(n)),
		preview(n.Content, 40),
	)
}

func printNote(w io.Writer, n model.Note) {
	fmt.Fprintf(w, "%s %s\n", swatch(n.Color), color.New(color.Bold).Sprint(n.Title))
	fmt.Fprintf(w, "   ID: %d  Color: %s  Saved: %s\n", n.ID, n.Color.Name(), formatDate(n))
	fmt.Fprintln(w)
	fmt.Fprintln(w, n.Content)
}

func success(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), fmt.Sprintf(format, a...))
}

func failure(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgRed).Sprint("✗"), msg)
}

// elapsed is a short human form of d.
func elapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
