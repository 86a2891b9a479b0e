package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Columns are padded to the widest visible cell, so styled cells align too.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		writeCell(&b, StyleHeader.Render(h), widths[i]-lipgloss.Width(h), i < cols-1)
	}
	b.WriteString("\n")

	for i, w := range widths {
		writeCell(&b, StyleDim.Render(strings.Repeat("─", w)), 0, i < cols-1)
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(&b, cell, widths[i]-lipgloss.Width(cell), i < cols-1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeCell(b *strings.Builder, cell string, pad int, gap bool) {
	b.WriteString(cell)
	if gap {
		b.WriteString(strings.Repeat(" ", max(pad, 0)+colGap))
	}
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return box.Render(StyleHeader.Render(title) + "\n\n" + content)
	}
	return box.Render(content)
}

// KeyValue is one row of RenderPairs.
type KeyValue struct {
	Key   string
	Value string
}

// RenderPairs renders label/value rows with the labels dimmed and the
// values aligned.
func RenderPairs(pairs []KeyValue) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.Key))
	}
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p.Key)+colGap)
		lines[i] = Dim(p.Key) + pad + p.Value
	}
	return strings.Join(lines, "\n")
}
