package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/KromDaniel/regsynth/pkg/regsynth"
)

// Styles for terminal reports
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

type field struct {
	label string
	value string
}

// renderFields lays out a title and aligned label/value rows.
func renderFields(title string, fields []field) string {
	lines := []string{titleStyle.Render(title)}
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f.label)+valueStyle.Render(f.value))
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderSummary reports a generate run: emitted records, rejections per
// reason (zero counts omitted) and throughput.
func renderSummary(stats regsynth.Stats, elapsed time.Duration) string {
	fields := []field{
		{"candidates", fmt.Sprint(stats.Candidates)},
		{"emitted", fmt.Sprint(stats.Emitted)},
		{"rejected", fmt.Sprint(stats.TotalRejected())},
	}
	for _, r := range regsynth.Reasons {
		if n := stats.Rejected[r]; n > 0 {
			fields = append(fields, field{"  " + r.String(), fmt.Sprint(n)})
		}
	}
	fields = append(fields, field{"elapsed", elapsed.Round(time.Millisecond).String()})

	out := renderFields("regsynth summary", fields)
	if stats.Candidates > 0 {
		rate := float64(stats.Emitted) / float64(stats.Candidates) * 100
		out += mutedStyle.Render(fmt.Sprintf("acceptance %.1f%%", rate)) + "\n"
	}
	return out
}
