package ui

import (
	"strings"
	"testing"
)

func plainStyles() Styles {
	// Lipgloss styles degrade to plain text without a color profile, which
	// keeps these assertions simple.
	return NewStyles(LightTheme())
}

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable(
		Column{Title: "Item"},
		Column{Title: "Total", Align: AlignRight},
	)
	tbl.AddRow("Leche 1L", "24.50")
	tbl.AddRow("Pan", "112.00")

	out := tbl.View(plainStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 { // header, divider, 2 rows
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}

	if !strings.Contains(lines[2], "Leche 1L   24.50") {
		t.Errorf("right-aligned money column mismatch: %q", lines[2])
	}
	if !strings.Contains(lines[3], "Pan       112.00") {
		t.Errorf("right-aligned money column mismatch: %q", lines[3])
	}
}

func TestTableShortRows(t *testing.T) {
	tbl := NewTable(Column{Title: "A"}, Column{Title: "B"})
	tbl.AddRow("only")

	out := tbl.View(plainStyles())
	if !strings.Contains(out, "only") {
		t.Errorf("short row dropped: %q", out)
	}
}

func TestEmptyTableRendersHeaderOnly(t *testing.T) {
	tbl := NewTable(Column{Title: "Item"}, Column{Title: "Qty"})
	out := tbl.View(plainStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 { // header + divider
		t.Errorf("expected header and divider only, got %d lines", len(lines))
	}
}

func TestNoColumns(t *testing.T) {
	tbl := &Table{}
	if out := tbl.View(plainStyles()); out != "" {
		t.Errorf("expected empty render, got %q", out)
	}
}
