// Package report builds a per-run summary as markdown and renders it to
// HTML for the HTTP surface. No charts are produced here.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"gohrm/domain/melt"
)

// BuildMarkdown produces a markdown summary of a run: sample table with Tm
// and raw-signal statistics, the detected regions, and any skipped columns.
func BuildMarkdown(result *melt.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Melt Analysis Run %s\n\n", result.RunID)
	fmt.Fprintf(&b, "%d samples, %d temperature points (%.2f–%.2f °C)\n\n",
		len(result.Samples), len(result.Temperatures),
		first(result.Temperatures), last(result.Temperatures))

	r := result.Regions
	fmt.Fprintf(&b, "Baseline windows: pre-melt [%d,%d), post-melt [%d,%d)\n\n",
		r.PreStart, r.PreEnd, r.PostStart, r.PostEnd)

	b.WriteString("| Sample | Tm (°C) | Mean Rn | Min Rn | Max Rn |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i := range result.Samples {
		sm := &result.Samples[i]
		mean, _ := stats.Mean(stats.Float64Data(sm.Fluorescence))
		min, _ := stats.Min(stats.Float64Data(sm.Fluorescence))
		max, _ := stats.Max(stats.Float64Data(sm.Fluorescence))
		fmt.Fprintf(&b, "| %s | %s | %.3f | %.3f | %.3f |\n",
			sm.Name, formatTm(sm.Tm), mean, min, max)
	}

	if len(result.Skipped) > 0 {
		b.WriteString("\n## Skipped columns\n\n")
		for _, col := range result.Skipped {
			fmt.Fprintf(&b, "- %s (coverage %.0f%%)\n", col.Name, col.Coverage*100)
		}
	}
	return b.String()
}

// RenderHTML renders a markdown summary to a standalone HTML fragment
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func formatTm(tm *float64) string {
	if tm == nil || math.IsNaN(*tm) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *tm)
}

func first(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return v[0]
}

func last(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return v[len(v)-1]
}
