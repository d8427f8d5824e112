package kernel

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// bannerStyle for the startup line
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// summaryStyle for the shutdown summary
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

func writeBanner(w io.Writer, engineName, session string) {
	fmt.Fprintln(w, bannerStyle.Render("gokernel ready"))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("engine %s, session %s", engineName, session)))
}

func writeSummary(w io.Writer, stats Stats, contextLen int) {
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf(
		"served %d, skipped %d malformed, context holds %d names",
		stats.Served, stats.Skipped, contextLen)))
}
