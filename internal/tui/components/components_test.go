package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 4}, {7, 7}, {10, 1}} {
		widths := LayoutRow(tc.total, tc.n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
		if widths[0] < widths[len(widths)-1] {
			t.Errorf("LayoutRow(%d, %d): remainder should go to first items, got %v", tc.total, tc.n, widths)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)
	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no background styling: %q", i, lines[i])
		}
	}
}

func TestMetricCardWidth(t *testing.T) {
	out := MetricCard(Metric{Label: "Budget", Value: "€1,000.00", Note: "3 categories"}, 30)
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != 30 {
			t.Errorf("line %d width = %d, want 30", i, w)
		}
	}
}

func TestUsageBarShowsPercent(t *testing.T) {
	out := UsageBar(125, 30)
	if !strings.Contains(out, "125%") {
		t.Errorf("expected 125%% in %q", out)
	}
	if ColorForUsage(125) != theme.Active.Bad {
		t.Error("over budget should use the bad color")
	}
	if ColorForUsage(85) != theme.Active.Warn {
		t.Error("85% should warn")
	}
	if ColorForUsage(10) != theme.Active.Good {
		t.Error("10% should be good")
	}
}

func TestHBarChartScalesToPeak(t *testing.T) {
	out := HBarChart([]Bar{
		{Label: "Rent", Value: 100, Text: "100"},
		{Label: "Food", Value: 50, Text: "50"},
	}, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half == 0 || half >= full {
		t.Errorf("bar lengths not proportional: %d vs %d", full, half)
	}
}

func TestDayChartLabelsDays(t *testing.T) {
	out := DayChart([]float64{10, 20, 5, 40}, theme.Active.Accent, 40, 6)
	if !strings.Contains(out, "└") {
		t.Error("expected an x-axis")
	}
	if !strings.Contains(out, "1") {
		t.Error("expected day labels")
	}
	if got := DayChart(nil, theme.Active.Accent, 40, 6); got != "" {
		t.Errorf("empty chart should render nothing, got %q", got)
	}
}

func TestChartTickStep(t *testing.T) {
	cases := map[float64]float64{0: 1, 50: 10, 120: 20, 400: 50}
	for in, want := range cases {
		if got := chartTickStep(in); got != want {
			t.Errorf("chartTickStep(%v) = %v, want %v", in, got, want)
		}
	}
	if got := formatChartLabel(1500); got != "1.5k" {
		t.Errorf("formatChartLabel(1500) = %q", got)
	}
}

func TestStatusBarPrefersMessage(t *testing.T) {
	sb := StatusBar{Hints: strings.Repeat("x", 50), Message: "budget must be positive", IsError: true}
	out := sb.Render(40)
	if w := lipgloss.Width(out); w != 40 {
		t.Errorf("width = %d, want 40", w)
	}
	if !strings.Contains(out, "budget must be positive") {
		t.Error("error message should survive truncation")
	}
}

func TestPhaseBarMarksProgress(t *testing.T) {
	out := RenderPhaseBar(model.PhaseRunning)
	if !strings.Contains(out, "✓ Setup") || !strings.Contains(out, "● Tracking") || !strings.Contains(out, "○ Summary") {
		t.Errorf("unexpected phase bar: %q", out)
	}
}
