package clustering

import (
	"fmt"
	"strings"
)

const dateFormat = "2006-01-02"

// FormatPhaseSummary returns a human-readable summary of detected phases.
// Outliers are summarized by count only.
func FormatPhaseSummary(phases []Phase, outliers []Point) string {
	var sb strings.Builder

	total := len(outliers)
	for _, p := range phases {
		total += len(p.EntryIDs)
	}

	if len(phases) == 0 {
		fmt.Fprintf(&sb, "No mood phases found from %d %s\n", total, plural(total, "entry", "entries"))
		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d %s from %d %s",
		len(phases), plural(len(phases), "phase", "phases"), total, plural(total, "entry", "entries"))
	if len(outliers) > 0 {
		fmt.Fprintf(&sb, " (%d outliers skipped)", len(outliers))
	}
	sb.WriteString("\n")

	for i, p := range phases {
		n := len(p.EntryIDs)
		fmt.Fprintf(&sb, "\nPhase %d: %s, %s to %s (%d %s)\n  %s\n",
			i+1, p.Name, p.Start.Format(dateFormat), p.End.Format(dateFormat),
			n, plural(n, "entry", "entries"), p.Description)
	}

	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
