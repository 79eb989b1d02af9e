// Package statsview renders registration statistics as Markdown, for the
// stats subcommand and the TUI stats panel.
package statsview

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/ui/markdown"
)

// Document builds the Markdown for stats.
func Document(stats *api.Stats) string {
	var b strings.Builder

	b.WriteString("## Overview\n\n")
	if stats == nil || len(stats.General) == 0 {
		b.WriteString("_No statistics available._\n")
	} else {
		b.WriteString("| Metric | Value |\n| --- | --- |\n")
		for _, k := range stats.General.Keys() {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(humanize(k)), cell(formatValue(stats.General[k])))
		}
	}

	b.WriteString("\n## Training tracks\n\n")
	var tracks any
	if stats != nil {
		tracks = stats.TrainingTracks
	}
	writeTracks(&b, tracks)

	return b.String()
}

// Render builds and renders the stats document at width.
func Render(stats *api.Stats, width int, style string) (string, error) {
	r, err := markdown.New(width, style)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(Document(stats))
	if err != nil {
		return "", fmt.Errorf("render stats: %w", err)
	}
	return out, nil
}

func writeTracks(b *strings.Builder, tracks any) {
	switch t := tracks.(type) {
	case []any:
		rows := make([]api.Record, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, api.Record(m))
			}
		}
		if len(rows) == 0 {
			b.WriteString("_No registrations yet._\n")
			return
		}
		writeTable(b, rows)
	case map[string]any:
		if len(t) == 0 {
			b.WriteString("_No registrations yet._\n")
			return
		}
		rec := api.Record(t)
		b.WriteString("| Track | Registrations |\n| --- | --- |\n")
		for _, k := range rec.Keys() {
			fmt.Fprintf(b, "| %s | %s |\n", cell(trackLabel(k)), cell(formatValue(rec[k])))
		}
	case nil:
		b.WriteString("_No registrations yet._\n")
	default:
		data, _ := json.MarshalIndent(t, "", "  ")
		b.WriteString("```json\n" + string(data) + "\n```\n")
	}
}

// writeTable renders rows with the union of their keys as columns. Track
// columns come first and show catalog labels.
func writeTable(b *strings.Builder, rows []api.Record) {
	seen := map[string]bool{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	sort.SliceStable(cols, func(i, j int) bool {
		return isTrackKey(cols[i]) && !isTrackKey(cols[j])
	})

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = cell(humanize(c))
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")

	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			v := r.String(c)
			if isTrackKey(c) {
				v = trackLabel(v)
			}
			cells[i] = cell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func isTrackKey(k string) bool {
	return strings.Contains(k, "track")
}

func trackLabel(v string) string {
	if registration.InCatalog(registration.FieldTrainingTrack, v) {
		return registration.LabelFor(registration.FieldTrainingTrack, v)
	}
	return v
}

// humanize turns "total_registrations" into "Total registrations".
func humanize(k string) string {
	words := strings.FieldsFunc(k, func(r rune) bool { return r == '_' || r == '-' })
	if len(words) == 0 {
		return k
	}
	s := strings.Join(words, " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case map[string]any, []any:
		data, _ := json.Marshal(t)
		return string(data)
	default:
		return api.Record{"v": v}.String("v")
	}
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return cellReplacer.Replace(s)
}
