package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Spent"},
		Rows: [][]string{
			{"Groceries", "€250.00"},
			{"---"},
			{"Total", "€1,250.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
	if !strings.Contains(lines[3], "│ Groceries │   €250.00 │") {
		t.Fatalf("unexpected row: %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], "├") {
		t.Fatalf("separator row missing: %q", lines[4])
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderUsageBar_Clamps(t *testing.T) {
	bar := RenderUsageBar(150, 10)
	if strings.Count(bar, "█") != 10 {
		t.Fatalf("expected full bar, got %q", bar)
	}
	if !strings.HasSuffix(bar, "150.0%") {
		t.Fatalf("expected raw percentage label, got %q", bar)
	}
	if strings.Count(RenderUsageBar(-5, 10), "░") != 10 {
		t.Fatal("expected empty bar for negative usage")
	}
}
