// Package display renders events, deletion previews and statistics as
// fixed-width console tables.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"stagesync/internal/calendar"
	"stagesync/internal/event"
)

// truncate shortens s to at most max characters, appending "..." when it was
// cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func formatTime(t *event.TimeOfDay) string {
	if t == nil {
		return "all-day"
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// PrintEvents writes one table row per event, with the description on an
// indented second line when present.
func PrintEvents(w io.Writer, events []event.Event) {
	fmt.Fprintf(w, "\n%-40s %-12s %-8s %-12s %-8s %-25s\n",
		"summary", "start.date", "start", "end.date", "end", "location")
	fmt.Fprintln(w, strings.Repeat("-", 105))
	for i := range events {
		e := &events[i]
		fmt.Fprintf(w, "%-40s %-12s %-8s %-12s %-8s %-25s\n",
			truncate(e.Title, 38),
			e.StartDate,
			formatTime(e.StartTime),
			e.EndDate,
			formatTime(e.EndTime),
			truncate(e.Location, 23))
		if e.Description != "" {
			preview := strings.ReplaceAll(e.Description, "\n", " | ")
			fmt.Fprintf(w, "  description: %s\n", truncate(preview, 100))
		}
	}
}

// PrintDeletePreview writes the table of remote events a delete run would
// remove.
func PrintDeletePreview(w io.Writer, matches []calendar.Match) {
	fmt.Fprintf(w, "\n%d events would be DELETED:\n", len(matches))
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "%-40s %-12s %-30s\n", "TITLE", "DATE", "GCAL LOCATION")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, m := range matches {
		fmt.Fprintf(w, "%-40s %-12s %-30s\n",
			truncate(m.Remote.Title, 38),
			m.Remote.Date,
			truncate(m.Remote.Location, 28))
	}
}

type groupCount struct {
	name      string
	total     int
	purchased int
}

func countBy(events []event.Event, key func(*event.Event) string, fallback string) []groupCount {
	byName := make(map[string]*groupCount)
	for i := range events {
		name := key(&events[i])
		if name == "" {
			name = fallback
		}
		g, ok := byName[name]
		if !ok {
			g = &groupCount{name: name}
			byName[name] = g
		}
		g.total++
		if events[i].Purchased {
			g.purchased++
		}
	}

	groups := make([]groupCount, 0, len(byName))
	for _, g := range byName {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].total != groups[j].total {
			return groups[i].total > groups[j].total
		}
		return groups[i].name < groups[j].name
	})
	return groups
}

func printGroups(w io.Writer, heading, label string, groups []groupCount) {
	fmt.Fprintf(w, "\n%s:\n", heading)
	fmt.Fprintf(w, "%-6s %-6s %s\n", "Total", "Purch", label)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, g := range groups {
		fmt.Fprintf(w, "  %4d %6d  %s\n", g.total, g.purchased, g.name)
	}
}

// PrintStats writes totals plus per-venue and per-organization breakdowns,
// each sorted by descending event count.
func PrintStats(w io.Writer, events []event.Event) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(w, "STATISTICS")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	purchased := 0
	for i := range events {
		if events[i].Purchased {
			purchased++
		}
	}
	fmt.Fprintf(w, "\nTotal Events: %d (%d purchased)\n", len(events), purchased)

	printGroups(w, "Events by Venue", "Venue",
		countBy(events, func(e *event.Event) string { return e.Location }, "(No venue)"))
	printGroups(w, "Events by Organization", "Organization",
		countBy(events, func(e *event.Event) string { return e.Organization }, "(No organization)"))
	fmt.Fprintln(w)
}
