package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234, "1.2K"},
		{1_234_567, "1.2M"},
		{1_234_567_890, "1.2B"},
	}
	for _, tt := range tests {
		if got := FormatTokens(tt.n); got != tt.want {
			t.Errorf("FormatTokens(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	if got := FormatCost(0.0072); got != "$0.0072" {
		t.Errorf("FormatCost(0.0072) = %q", got)
	}
	if got := FormatCost(0); got != "$0.0000" {
		t.Errorf("FormatCost(0) = %q", got)
	}
	if got := FormatLedgerCost(0.000001); got != "$0.000001" {
		t.Errorf("FormatLedgerCost = %q", got)
	}
	if got := FormatRate(0.4); got != "$0.40/M" {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-12345, "-12,345"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "-" {
		t.Errorf("FormatTime(zero) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("a\n  b\tc", 10); got != "a b c" {
		t.Errorf("Truncate collapse = %q", got)
	}
	if got := Truncate("héllo world", 5); got != "héll…" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Model", "Cost"},
		Rows: [][]string{
			{"gpt-5", "$1.0000"},
			{"---"},
			{"gpt-4.1-mini", "$0.0072"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Errorf("line %d width %d, want %d", i, lipgloss.Width(l), w)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render empty")
	}
}
