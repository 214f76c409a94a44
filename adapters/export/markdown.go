package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"godescribe/domain/describe"
	"godescribe/domain/run"
	"godescribe/internal"
)

// MarkdownWriter writes a human-readable <base>_report.md
type MarkdownWriter struct {
	target Target
	logger *internal.Logger
}

// NewMarkdownWriter creates a Markdown report writer
func NewMarkdownWriter(target Target, logger *internal.Logger) *MarkdownWriter {
	return &MarkdownWriter{target: target, logger: logger}
}

func (w *MarkdownWriter) Format() string { return "md" }

func (w *MarkdownWriter) Write(ctx context.Context, report *run.Report) ([]string, error) {
	if err := w.target.ensureDir(); err != nil {
		return nil, err
	}
	path := w.target.Path("report.md")
	if err := writeFile(path, RenderMarkdown(report)); err != nil {
		return nil, err
	}
	w.logger.Info("Saved Markdown report to %s", path)
	return []string{path}, nil
}

// HTMLWriter renders the Markdown report into a standalone <base>_report.html
type HTMLWriter struct {
	target Target
	logger *internal.Logger
}

// NewHTMLWriter creates an HTML report writer
func NewHTMLWriter(target Target, logger *internal.Logger) *HTMLWriter {
	return &HTMLWriter{target: target, logger: logger}
}

func (w *HTMLWriter) Format() string { return "html" }

func (w *HTMLWriter) Write(ctx context.Context, report *run.Report) ([]string, error) {
	if err := w.target.ensureDir(); err != nil {
		return nil, err
	}
	path := w.target.Path("report.html")
	if err := writeFile(path, RenderHTML(report)); err != nil {
		return nil, err
	}
	w.logger.Info("Saved HTML report to %s", path)
	return []string{path}, nil
}

// RenderHTML converts the Markdown report into a complete HTML page
func RenderHTML(report *run.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Descriptive statistics",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(RenderMarkdown(report), p, renderer)
}

// RenderMarkdown formats a report as Markdown tables
func RenderMarkdown(report *run.Report) []byte {
	var b bytes.Buffer

	b.WriteString("# Descriptive statistics\n\n")
	if m := report.Manifest; m != nil {
		fmt.Fprintf(&b, "- Run: `%s`\n", m.RunID)
		fmt.Fprintf(&b, "- Source: `%s`\n", m.Source)
		fmt.Fprintf(&b, "- Created: %s\n", m.CreatedAt)
		for _, s := range m.Skipped {
			fmt.Fprintf(&b, "- Skipped %s: %s\n", s.Name, escapeCell(s.Reason))
		}
		b.WriteString("\n")
	}

	info := report.Overall.DatasetInfo
	fmt.Fprintf(&b, "## Dataset\n\n%d rows, %d numeric and %d categorical columns.\n\n",
		info.TotalRows, len(info.NumericColumns), len(info.CategoricalColumns))

	if report.Overall.Numeric.Len() > 0 {
		b.WriteString("## Numeric columns\n\n")
		writeNumericTable(&b, report.Overall.Numeric)
	}
	if report.Overall.Categorical.Len() > 0 {
		b.WriteString("## Categorical columns\n\n")
		writeCategoricalTable(&b, report.Overall.Categorical)
	}

	for _, g := range report.Groupings {
		fmt.Fprintf(&b, "## %s\n\n", g.KeySet.Name)
		fmt.Fprintf(&b, "Grouped by %s: %d groups.\n\n", strings.Join(g.KeySet.Columns, ", "), g.Results.Len())
		writeGroupTable(&b, g.Results, info.NumericColumns)
	}
	return b.Bytes()
}

func writeNumericTable(b *bytes.Buffer, stats *describe.NumericStats) {
	b.WriteString("| Column | Count | Mean | Median | Min | Max | Std dev |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
		s := pair.Value
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			escapeCell(pair.Key), s.Count, formatFloat(s.Mean), formatFloat(s.Median),
			formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.StdDev))
	}
	b.WriteString("\n")
}

func writeCategoricalTable(b *bytes.Buffer, stats *describe.CategoricalStats) {
	b.WriteString("| Column | Unique | Mode | Mode count | Total | Top values |\n")
	b.WriteString("|---|---:|---|---:|---:|---|\n")
	for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
		s := pair.Value
		mode := "-"
		if s.Mode != nil {
			mode = escapeCell(*s.Mode)
		}
		fmt.Fprintf(b, "| %s | %d | %s | %d | %d | %s |\n",
			escapeCell(pair.Key), s.UniqueValues, mode, s.ModeCount, s.TotalCount, escapeCell(formatTopValues(s.TopValues)))
	}
	b.WriteString("\n")
}

// writeGroupTable shows group size and the mean of every numeric column per group
func writeGroupTable(b *bytes.Buffer, results *describe.ResultCollection, numericColumns []string) {
	b.WriteString("| Group | Size |")
	for _, col := range numericColumns {
		fmt.Fprintf(b, " %s mean |", escapeCell(col))
	}
	b.WriteString("\n|---|---:|")
	for range numericColumns {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	for group := results.Oldest(); group != nil; group = group.Next() {
		fmt.Fprintf(b, "| %s | %d |", escapeCell(group.Key), group.Value.GroupSize)
		for _, col := range numericColumns {
			mean := "-"
			if s, ok := group.Value.Numeric.Get(col); ok {
				mean = formatFloat(s.Mean)
			}
			fmt.Fprintf(b, " %s |", mean)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatTopValues renders "red (3), blue (1)"
func formatTopValues(top *describe.Frequencies) string {
	if top == nil {
		return ""
	}
	parts := make([]string, 0, top.Len())
	for pair := top.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, fmt.Sprintf("%s (%d)", pair.Key, pair.Value))
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
