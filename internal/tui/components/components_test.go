package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {80, 4}, {7, 7}, {10, 3}} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("Line %d has no ANSI codes, padding would show unstyled", i)
		}
	}
}

func TestKPIGridRows(t *testing.T) {
	theme.SetActive("flexoki-dark")

	kpis := []model.KPI{
		{ID: "a", Label: "Alpha", Value: "1", Status: model.KPISuccess},
		{ID: "b", Label: "Beta", Value: "2", Status: model.KPIWarning},
		{ID: "c", Label: "Gamma", Value: "3", Status: model.KPIError},
		{ID: "d", Label: "Delta", Value: "4", Status: model.KPINeutral},
	}
	grid := KPIGrid(kpis, 3, 90)

	card := KPICard(kpis[0], 30)
	wantHeight := 2 * lipgloss.Height(card)
	if got := lipgloss.Height(grid); got != wantHeight {
		t.Errorf("grid height = %d, want %d (two rows)", got, wantHeight)
	}
	if got := lipgloss.Width(grid); got != 90 {
		t.Errorf("grid width = %d, want 90", got)
	}
	for _, k := range kpis {
		if !strings.Contains(grid, k.Label) {
			t.Errorf("grid missing %q", k.Label)
		}
	}
	if KPIGrid(nil, 3, 90) != "" {
		t.Error("empty KPI list should render nothing")
	}
}

func TestKPICardTruncatesLongText(t *testing.T) {
	theme.SetActive("flexoki-dark")
	k := model.KPI{Label: strings.Repeat("x", 80), Value: "1"}
	card := KPICard(k, 20)
	if w := lipgloss.Width(card); w != 20 {
		t.Errorf("card width = %d, want 20", w)
	}
	if !strings.Contains(card, "…") {
		t.Error("long label should be truncated with an ellipsis")
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	theme.SetActive("flexoki-dark")
	for active := range Tabs {
		pos := 0
		for i, tab := range Tabs {
			w := TabVisualWidth(tab, i == active)
			if w != len(tab.Name)+2*tabPadding {
				t.Fatalf("tab %q width = %d", tab.Name, w)
			}
			x := pos + w/2
			if got := TabAtX(x, active); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
		if got := TabAtX(pos+5, active); got != -1 {
			t.Errorf("x past the last tab = %d, want -1", got)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should map to -1")
	}
}

func TestRenderTabBarFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bar := RenderTabBar(1, 100)
	if w := lipgloss.Width(bar); w != 100 {
		t.Errorf("tab bar width = %d, want 100", w)
	}
	if lipgloss.Height(bar) != 1 {
		t.Error("tab bar should be one row")
	}
}

func TestRenderStatusBar(t *testing.T) {
	theme.SetActive("flexoki-dark")

	bar := RenderStatusBar(90, "hotel-a", "0.4s", false)
	if w := lipgloss.Width(bar); w != 90 {
		t.Errorf("status bar width = %d, want 90", w)
	}
	if !strings.Contains(bar, "hotel-a") || !strings.Contains(bar, "Loaded in 0.4s") {
		t.Errorf("status bar = %q", bar)
	}
	if refreshing := RenderStatusBar(90, "", "0.4s", true); !strings.Contains(refreshing, "refreshing") {
		t.Error("refreshing state should replace the data age")
	}
}

func TestSparkline(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := Sparkline([]float64{0, 4, 8}, theme.Active.Green)
	if !strings.Contains(out, "▁▄█") {
		t.Errorf("Sparkline = %q", out)
	}
	if Sparkline(nil, theme.Active.Green) != "" {
		t.Error("empty sparkline should render nothing")
	}
}

func TestColumnChart(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := ColumnChart([]float64{1, 2, 4}, theme.Active.Blue, 40, 3)
	if h := lipgloss.Height(out); h != 4 {
		t.Errorf("chart height = %d, want 3 rows plus axis", h)
	}
	if !strings.Contains(out, "4│") {
		t.Error("peak should label the axis")
	}

	// Narrow charts keep the most recent values.
	many := make([]float64, 100)
	many[99] = 5
	narrow := ColumnChart(many, theme.Active.Blue, 12, 2)
	if w := lipgloss.Width(narrow); w > 12 {
		t.Errorf("chart width = %d, want <= 12", w)
	}
}

func TestFormatAxis(t *testing.T) {
	for in, want := range map[float64]string{12: "12", 1500: "1.5k", 2_500_000: "2.5M"} {
		if got := formatAxis(in); got != want {
			t.Errorf("formatAxis(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestShareBarClamps(t *testing.T) {
	theme.SetActive("flexoki-dark")
	if out := ShareBar("Tax", 1.7, theme.Active.Magenta, 10, 20); !strings.Contains(out, "100.0%") {
		t.Errorf("over-full share should clamp to 100%%: %q", out)
	}
	if out := ShareBar("Tax", -0.3, theme.Active.Magenta, 10, 20); !strings.Contains(out, "0.0%") {
		t.Errorf("negative share should clamp to 0%%: %q", out)
	}
}

func TestColorForShare(t *testing.T) {
	theme.SetActive("flexoki-dark")
	tm := theme.Active
	cases := map[float64]lipgloss.Color{0.95: tm.Green, 0.75: tm.Yellow, 0.55: tm.Orange, 0.1: tm.Red}
	for pct, want := range cases {
		if got := ColorForShare(pct); got != want {
			t.Errorf("ColorForShare(%v) = %v, want %v", pct, got, want)
		}
	}
}
