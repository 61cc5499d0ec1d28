package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls how a table column is justified. Money columns are rendered
// right-aligned so amounts line up at the decimal point.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Title string
	Align Align
}

// Table renders static tabular data with an optional highlighted row. It is
// deliberately dumb: no scrolling, no focus handling — the screens own those.
type Table struct {
	Columns  []Column
	Rows     [][]string
	Selected int // highlighted row index; -1 for none
}

// NewTable creates a table with the given columns and no selection.
func NewTable(cols ...Column) *Table {
	return &Table{Columns: cols, Selected: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table.
func (t *Table) View(styles Styles) string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	pad := func(cell string, col int) string {
		gap := widths[col] - lipgloss.Width(cell)
		if gap < 0 {
			gap = 0
		}
		if t.Columns[col].Align == AlignRight {
			return strings.Repeat(" ", gap) + cell
		}
		return cell + strings.Repeat(" ", gap)
	}

	var sb strings.Builder

	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(styles.Bold.Render(pad(c.Title, i)))
	}
	sb.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(t.Columns) - 1)
	sb.WriteString(styles.RenderDivider(total))
	sb.WriteString("\n")

	for r, row := range t.Rows {
		var line strings.Builder
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(pad(cell, i))
		}
		if r == t.Selected {
			sb.WriteString(styles.Selected.Render(line.String()))
		} else {
			sb.WriteString(styles.Body.Render(line.String()))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
